package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"w3xparser/internal/config"
	"w3xparser/internal/export"
	"w3xparser/internal/filewalker"
	"w3xparser/internal/luahost"
	"w3xparser/internal/parser"
	"w3xparser/internal/source"
	"w3xparser/internal/store"
	"w3xparser/internal/textutil"
	"w3xparser/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, keeping default")
	}

	rootCmd := &cobra.Command{
		Use:          "w3xparser",
		Short:        "Parser for Warcraft III map data files",
		Long:         "Parses SLK spreadsheets, sectioned .txt profiles and flat .ini files into ordered JSON, Lua tables or PostgreSQL rows.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(formatCmd(cfg, parser.FormatTxt, "Parse a sectioned .txt profile file"))
	rootCmd.AddCommand(formatCmd(cfg, parser.FormatSLK, "Parse a SYLK spreadsheet"))
	rootCmd.AddCommand(formatCmd(cfg, parser.FormatINI, "Parse a flat .ini file"))
	rootCmd.AddCommand(queryCmd(cfg))
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(batchCmd(cfg))

	return rootCmd
}

func formatCmd(cfg *config.Config, format parser.Format, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(format) + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			encoding, _ := cmd.Flags().GetString("encoding")
			out, err := renderFile(format, args[0], name, encoding)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(export.Indent(out))
			return err
		},
	}

	cmd.Flags().String("name", "", "Display name used in error messages (default: file path)")
	cmd.Flags().String("encoding", cfg.InputEncoding, "Source encoding of the file")

	return cmd
}

func queryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <file> <path>",
		Short: "Parse a file and print the value at a JSON path",
		Long: `Parses the file, renders it as JSON and evaluates a gjson path against it,
for example "hpal.name.0" for a profile or "hfoo.hp" for a spreadsheet.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			encoding, _ := cmd.Flags().GetString("encoding")

			format := parser.Format(formatFlag)
			if format == "" {
				p, ok := filewalker.NewWalker().ParserFor(args[0])
				if !ok {
					return fmt.Errorf("cannot infer format of %s, use --format", args[0])
				}
				format = p.Format()
			}

			out, err := renderFile(format, args[0], "", encoding)
			if err != nil {
				return err
			}
			res := export.Query(out, args[1])
			if !res.Exists() {
				return fmt.Errorf("path %q not found", args[1])
			}
			log.Debug().Str("path", args[1]).Str("value", textutil.Truncate(res.Raw, 60)).Msg("Query matched")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Raw)
			return err
		},
	}

	cmd.Flags().String("format", "", "File format: slk, txt or ini (default: from extension)")
	cmd.Flags().String("encoding", cfg.InputEncoding, "Source encoding of the file")

	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.lua> [args...]",
		Short: "Run a Lua script with the w3xparser module available",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()
			return luahost.RunFile(ctx, args[0], args[1:])
		},
	}
}

func batchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Parse every supported file under a directory",
		Long: `Walks the directory, parses every .slk, .txt and .ini file concurrently and
reports failures. With --store, each result is saved to PostgreSQL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			save, _ := cmd.Flags().GetBool("store")
			return runBatch(cfg, args[0], workers, save)
		},
	}

	cmd.Flags().Int("workers", cfg.WorkerCount, "Number of concurrent parsers")
	cmd.Flags().Bool("store", false, "Save parse results to PostgreSQL")

	return cmd
}

// renderFile reads, decodes and parses path, returning its JSON rendering.
func renderFile(format parser.Format, path, name, encoding string) ([]byte, error) {
	p, err := parser.ForFormat(format)
	if err != nil {
		return nil, err
	}
	text, err := source.ReadFile(path, encoding)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = path
	}
	res, err := p.Parse(name, text)
	if err != nil {
		return nil, err
	}
	return export.Result(res)
}

// runBatch handles the `batch` command.
func runBatch(cfg *config.Config, root string, workers int, save bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	var st *store.Store
	if save {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		st = store.New(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	entries, err := filewalker.NewWalker().Walk(root)
	if err != nil {
		return fmt.Errorf("walk input directory: %w", err)
	}

	rootAbs, _ := filepath.Abs(root)
	log.Info().Int("files", len(entries)).Int("workers", workers).Msg("Starting batch parse")

	pool := worker.NewPool[filewalker.FileEntry, *parser.Result](workers,
		func(ctx context.Context, entry filewalker.FileEntry) (*parser.Result, error) {
			text, err := source.ReadFile(entry.Path, cfg.InputEncoding)
			if err != nil {
				return nil, err
			}
			name, err := filepath.Rel(rootAbs, entry.Path)
			if err != nil {
				name = entry.Path
			}
			res, err := entry.Parser.Parse(filepath.ToSlash(name), text)
			if err != nil {
				return nil, err
			}
			if st != nil {
				if _, err := st.Save(ctx, res); err != nil {
					return nil, err
				}
			}
			return res, nil
		},
	).WithLabel(func(e filewalker.FileEntry) string { return e.Path })

	results := pool.Execute(ctx, entries)

	var parsed, failed, skipped int
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.Err != nil:
			failed++
		default:
			parsed++
		}
	}

	log.Info().
		Int("files", len(entries)).
		Int("parsed", parsed).
		Int("failed", failed).
		Int("skipped", skipped).
		Bool("stored", save).
		Msg("Batch parse complete")

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(entries))
	}
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("Received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
