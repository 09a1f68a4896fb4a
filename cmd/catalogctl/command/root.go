// Package command provides the catalogctl commands. They operate on the
// same snapshot slot the API uses, selected by the API environment:
//
//	catalogctl search [query] [--especie Gato] [--status Todos]
//	catalogctl show <id>
//	catalogctl export [-o pets.yaml]
//	catalogctl import <pets.yaml>
//	catalogctl refresh
package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Apurer/pet-adoption-catalog/internal/app/api"
	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
)

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	var verbose bool
	env := &environment{out: out}
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect and maintain the pet adoption catalog",
		Long: `catalogctl reads and writes the persisted pet catalog snapshot
selected by POSTGRES_DSN or SQLITE_PATH, the same slot the API serves.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			env.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log store selection and cache initialization")
	root.AddCommand(
		newSearchCmd(env),
		newShowCmd(env),
		newExportCmd(env),
		newImportCmd(env),
		newRefreshCmd(env),
	)
	return root
}

// Execute runs the root command against stdout.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type environment struct {
	out    io.Writer
	logger *slog.Logger
}

// openCatalog loads configuration and the cache; callers must run the returned cleanup.
func (e *environment) openCatalog(ctx context.Context, opts ...petsapp.CatalogOption) (*petsapp.Catalog, *petsapp.Cache, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := e.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	store, cleanupStore := api.OpenSnapshotStore(ctx, cfg, logger)
	cache := petsapp.NewCache(ctx, store,
		petsapp.WithCacheLogger(logger),
		petsapp.WithSnapshotKey(cfg.SnapshotKey),
	)
	cleanup := func() {
		if err := cache.Close(ctx); err != nil {
			logger.Error("failed to flush pet snapshot", slog.String("error", err.Error()))
		}
		cleanupStore()
	}
	opts = append([]petsapp.CatalogOption{petsapp.WithCatalogLogger(logger)}, opts...)
	return petsapp.NewCatalog(cache, opts...), cache, cleanup, nil
}
