package document

import "w3xparser/internal/value"

// Coord addresses a grid cell. X is the column, Y the row; both start at 1.
type Coord struct {
	X, Y int
}

// Grid is the sparse cell matrix produced by the cell-grid scanner.
//
// Width and Height are extents: valid indices run from 1 to extent-1 and
// index 0 is never populated. Column x is labelled by cell (x,1) and row y
// by cell (1,y).
type Grid struct {
	Width  int
	Height int
	cols   []string
	rows   []string
	cells  map[Coord]string
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{Width: 1, Height: 1, cols: []string{""}, rows: []string{""}, cells: make(map[Coord]string)}
}

// GridBuilder is the sink driven by the cell-grid scanner.
type GridBuilder interface {
	BeginGrid()
	SetExtent(width, height int)
	SetCell(x, y int, raw string)
	EndGrid()
}

func (g *Grid) BeginGrid() {}

func (g *Grid) EndGrid() {}

// SetExtent grows the grid to at least width by height.
func (g *Grid) SetExtent(width, height int) {
	if width > g.Width {
		g.Width = width
	}
	if height > g.Height {
		g.Height = height
	}
	for len(g.cols) < g.Width {
		g.cols = append(g.cols, "")
	}
	for len(g.rows) < g.Height {
		g.rows = append(g.rows, "")
	}
}

// SetCell stores raw at (x, y), growing the extents when needed. Index 0 is
// reserved, so coordinates below 1 are ignored.
func (g *Grid) SetCell(x, y int, raw string) {
	if x < 1 || y < 1 {
		return
	}
	g.SetExtent(x+1, y+1)
	g.cells[Coord{x, y}] = raw
	if y == 1 {
		g.cols[x] = raw
	}
	if x == 1 {
		g.rows[y] = raw
	}
}

// Cell returns the raw content at (x, y); absent cells are empty.
func (g *Grid) Cell(x, y int) string {
	return g.cells[Coord{x, y}]
}

// ColLabel returns the raw label of column x.
func (g *Grid) ColLabel(x int) string {
	if x < 0 || x >= len(g.cols) {
		return ""
	}
	return g.cols[x]
}

// RowLabel returns the raw label of row y.
func (g *Grid) RowLabel(y int) string {
	if y < 0 || y >= len(g.rows) {
		return ""
	}
	return g.rows[y]
}

// Field is one labelled, non-empty cell of a row.
type Field struct {
	Name string
	Raw  string
}

// Object is one labelled row of the grid.
type Object struct {
	Label  string
	Fields []Field
}

// Objects enumerates labelled rows and their labelled, non-empty cells.
// Labels have their surrounding quotes stripped. When a label repeats, the
// entry keeps its first position and takes the content seen last.
func (g *Grid) Objects() []Object {
	colNames := make([]string, g.Width)
	for x := 1; x < g.Width; x++ {
		colNames[x], _ = value.StripQuotes(g.ColLabel(x))
	}

	var objects []Object
	seen := make(map[string]int)
	for y := 1; y < g.Height; y++ {
		label, _ := value.StripQuotes(g.RowLabel(y))
		if label == "" {
			continue
		}

		obj := Object{Label: label}
		fieldAt := make(map[string]int)
		for x := 1; x < g.Width; x++ {
			name := colNames[x]
			if name == "" {
				continue
			}
			raw := g.Cell(x, y)
			if raw == "" {
				continue
			}
			if i, ok := fieldAt[name]; ok {
				obj.Fields[i].Raw = raw
				continue
			}
			fieldAt[name] = len(obj.Fields)
			obj.Fields = append(obj.Fields, Field{Name: name, Raw: raw})
		}

		if i, ok := seen[label]; ok {
			objects[i] = obj
			continue
		}
		seen[label] = len(objects)
		objects = append(objects, obj)
	}
	return objects
}
