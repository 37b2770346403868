package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"degreeaudit/internal/app"
	auditHandler "degreeaudit/internal/audit/handler"
	"degreeaudit/internal/audit/models"
	"degreeaudit/internal/platform/config"
)

// globalFlags override the environment configuration.
type globalFlags struct {
	driver      string
	dsn         string
	programsDir string
	equivalents string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "auditctl",
		Short:         "Audit academic records against program requirements",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.driver, "driver", "", "catalog driver: sqlite, postgres or memory (default $CATALOG_DRIVER)")
	root.PersistentFlags().StringVar(&g.dsn, "dsn", "", "catalog DSN or sqlite path (default $CATALOG_DSN)")
	root.PersistentFlags().StringVar(&g.programsDir, "programs", "", "program data directory (default $PROGRAMS_DIR)")
	root.PersistentFlags().StringVar(&g.equivalents, "equivalencies", "", "equivalency YAML file (default $EQUIVALENCIES_FILE)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		newAuditCmd(&g),
		newRankCmd(&g),
		newGenEdCmd(&g),
		newImportCmd(&g),
		newTokenCmd(),
	)
	return root
}

func (g *globalFlags) config() config.Server {
	cfg := config.FromEnv()
	if g.driver != "" {
		cfg.Catalog.Driver = g.driver
	}
	if g.dsn != "" {
		cfg.Catalog.DSN = g.dsn
	}
	if g.programsDir != "" {
		cfg.Catalog.ProgramsDir = g.programsDir
	}
	if g.equivalents != "" {
		cfg.Catalog.EquivalenciesFile = g.equivalents
	}
	// the CLI never shares a cache with the server
	cfg.Redis.URL = ""
	return cfg
}

func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (g *globalFlags) open(cmd *cobra.Command) (*app.App, error) {
	return app.Open(cmd.Context(), g.config(), g.logger(cmd))
}

// recordFile is the on-disk academic record.
type recordFile struct {
	Items []auditHandler.ItemRequest `json:"items"`
}

func readRecord(path string) ([]models.CompletedItem, error) {
	if path == "" {
		return nil, nil
	}
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open record: %w", err)
		}
		defer f.Close()
		r = f
	}
	var rec recordFile
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return auditHandler.ParseItems(rec.Items)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
