package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"w3xparser/internal/document"
	"w3xparser/internal/parser"
)

const schema = `
CREATE TABLE IF NOT EXISTS source_files (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	format      TEXT NOT NULL,
	hash        TEXT NOT NULL,
	width       INT,
	height      INT,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS txt_sections (
	file_id  BIGINT NOT NULL REFERENCES source_files(id) ON DELETE CASCADE,
	position INT NOT NULL,
	name     TEXT NOT NULL,
	PRIMARY KEY (file_id, position)
);
CREATE TABLE IF NOT EXISTS txt_values (
	file_id  BIGINT NOT NULL REFERENCES source_files(id) ON DELETE CASCADE,
	position INT NOT NULL,
	section  TEXT NOT NULL,
	key      TEXT NOT NULL,
	vals     TEXT[] NOT NULL,
	PRIMARY KEY (file_id, position)
);
CREATE TABLE IF NOT EXISTS ini_values (
	file_id  BIGINT NOT NULL REFERENCES source_files(id) ON DELETE CASCADE,
	position INT NOT NULL,
	key      TEXT NOT NULL,
	val      TEXT NOT NULL,
	PRIMARY KEY (file_id, position)
);
CREATE TABLE IF NOT EXISTS slk_cells (
	file_id BIGINT NOT NULL REFERENCES source_files(id) ON DELETE CASCADE,
	x       INT NOT NULL,
	y       INT NOT NULL,
	val     TEXT NOT NULL,
	PRIMARY KEY (file_id, x, y)
);
`

var (
	sectionColumns = []string{"file_id", "position", "name"}
	txtColumns     = []string{"file_id", "position", "section", "key", "vals"}
	iniColumns     = []string{"file_id", "position", "key", "val"}
	slkColumns     = []string{"file_id", "x", "y", "val"}
)

// ErrNotFound is returned when no stored file has the requested name.
var ErrNotFound = errors.New("source file not found")

// Store persists parse results in PostgreSQL, one row set per source file.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens and pings a pool for databaseURL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save replaces the stored rows for r.Name. It reports false without
// writing when the stored content hash already matches.
func (s *Store) Save(ctx context.Context, r *parser.Result) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var storedHash string
	err = tx.QueryRow(ctx, `SELECT hash FROM source_files WHERE name = $1`, r.Name).Scan(&storedHash)
	switch {
	case err == nil && storedHash == r.Hash:
		log.Debug().Str("file", r.Name).Msg("Unchanged, skipping")
		return false, nil
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("lookup %s: %w", r.Name, err)
	}

	var width, height *int
	if r.Grid != nil {
		width, height = &r.Grid.Width, &r.Grid.Height
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO source_files (name, format, hash, width, height)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET format = EXCLUDED.format, hash = EXCLUDED.hash,
		    width = EXCLUDED.width, height = EXCLUDED.height, imported_at = now()
		RETURNING id
	`, r.Name, string(r.Format), r.Hash, width, height).Scan(&id)
	if err != nil {
		return false, fmt.Errorf("upsert %s: %w", r.Name, err)
	}

	for _, table := range []string{"txt_sections", "txt_values", "ini_values", "slk_cells"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE file_id = $1", id); err != nil {
			return false, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	var total int
	for _, set := range resultRows(id, r) {
		if len(set.rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{set.table}, set.columns, pgx.CopyFromRows(set.rows))
		if err != nil {
			return false, fmt.Errorf("copy %s rows: %w", set.table, err)
		}
		log.Debug().Str("file", r.Name).Str("table", set.table).Int64("rows", n).Msg("Copied rows")
		total += len(set.rows)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit %s: %w", r.Name, err)
	}
	log.Info().Str("file", r.Name).Str("format", string(r.Format)).Int("rows", total).Msg("Stored parse result")
	return true, nil
}

// LoadDocument rebuilds a stored sectioned document by replaying its rows
// through a document builder. Sections are opened first, in stored order, so
// sections without keys survive the round trip.
func (s *Store) LoadDocument(ctx context.Context, name string) (*document.Document, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM source_files WHERE name = $1 AND format = $2`,
		name, string(parser.FormatTxt)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	b := document.NewBuilder()
	b.BeginDocument()

	sections, err := s.pool.Query(ctx,
		`SELECT name FROM txt_sections WHERE file_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query %s sections: %w", name, err)
	}
	names, err := pgx.CollectRows(sections, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read %s sections: %w", name, err)
	}
	for _, n := range names {
		b.OpenSection(n)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT section, key, vals FROM txt_values WHERE file_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var section, key string
		var vals []string
		if err := rows.Scan(&section, &key, &vals); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		b.OpenSection(section)
		b.SetKey(key)
		for _, v := range vals {
			b.AppendValue(v)
		}
		b.EndValue()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	b.EndDocument()
	return b.Document(), nil
}

// copySet is one table's worth of COPY rows.
type copySet struct {
	table   string
	columns []string
	rows    [][]any
}

// resultRows flattens a parse result into COPY rows for its tables.
func resultRows(id int64, r *parser.Result) []copySet {
	switch {
	case r.Document != nil:
		return []copySet{
			{"txt_sections", sectionColumns, sectionRows(id, r.Document)},
			{"txt_values", txtColumns, txtRows(id, r.Document)},
		}
	case r.Flat != nil:
		return []copySet{{"ini_values", iniColumns, iniRows(id, r.Flat)}}
	case r.Grid != nil:
		return []copySet{{"slk_cells", slkColumns, slkRows(id, r.Grid)}}
	}
	return nil
}

func sectionRows(id int64, doc *document.Document) [][]any {
	names := doc.Sections()
	rows := make([][]any, 0, len(names))
	for i, name := range names {
		rows = append(rows, []any{id, i, name})
	}
	return rows
}

func txtRows(id int64, doc *document.Document) [][]any {
	var rows [][]any
	for _, name := range doc.Sections() {
		sec, _ := doc.Section(name)
		for _, k := range sec.Keys() {
			vals, _ := sec.Values(k)
			rows = append(rows, []any{id, len(rows), name, k, []string(vals)})
		}
	}
	return rows
}

func iniRows(id int64, f *document.Flat) [][]any {
	rows := make([][]any, 0, f.Len())
	for i, k := range f.Keys() {
		v, _ := f.Get(k)
		rows = append(rows, []any{id, i, k, v})
	}
	return rows
}

// slkRows lists non-empty cells ordered by row, then column.
func slkRows(id int64, g *document.Grid) [][]any {
	var coords []document.Coord
	for y := 1; y < g.Height; y++ {
		for x := 1; x < g.Width; x++ {
			if g.Cell(x, y) != "" {
				coords = append(coords, document.Coord{X: x, Y: y})
			}
		}
	}
	rows := make([][]any, 0, len(coords))
	for _, c := range coords {
		rows = append(rows, []any{id, c.X, c.Y, g.Cell(c.X, c.Y)})
	}
	return rows
}
