package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/gasbank/internal/app"
	"github.com/abhisek/gasbank/internal/catalog"
	"github.com/abhisek/gasbank/internal/config"
	"github.com/abhisek/gasbank/internal/coordinator"
	"github.com/abhisek/gasbank/internal/logger"
	"github.com/abhisek/gasbank/internal/store"
)

// env is everything a command needs to work with the user's data.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	coord *coordinator.Coordinator
}

// Close flushes pending saves, then closes the store and the log.
func (e *env) Close() {
	e.coord.Wait()
	e.store.Close()
	e.log.Sync()
}

// openEnv resolves configuration, opens the store and loads the
// coordinator. Flags override environment variables.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}

	paths := store.NewPaths(cfg.DBPath)
	dbPath, err := paths.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	logPath := cfg.LogFile
	if logPath == "" {
		if logPath, err = paths.LogFile(); err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
	}
	log, err := logger.New(cfg.LogMode, logPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := store.NewService(st.SnapshotRepo(), catalog.Loader{Path: cfg.CatalogPath}, cfg.SnapshotKeep, log.With("component", "store"))
	coord := coordinator.New(svc,
		coordinator.WithLogger(log.With("component", "coordinator")),
		coordinator.WithContext(cmd.Context()),
	)
	if err := coord.Load(cmd.Context()); err != nil {
		st.Close()
		log.Sync()
		return nil, fmt.Errorf("load: %w", err)
	}
	log.Info("opened", "db", dbPath, "catalog", cfg.CatalogPath)
	return &env{cfg: cfg, log: log, store: st, coord: coord}, nil
}

// printNotices echoes coordinator notices for non-interactive commands.
func printNotices(c *coordinator.Coordinator) {
	c.OnNotice(func(n coordinator.Notice) {
		if n.Kind == coordinator.NoticeError {
			fmt.Fprintln(os.Stderr, n.Message)
			return
		}
		fmt.Println(n.Message)
	})
}

// runApp opens the user's data and launches the TUI. With resume set, an
// active session opens directly.
func runApp(cmd *cobra.Command, resume bool) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if resume {
		return app.RunSession(e.coord)
	}
	return app.Run(e.coord)
}
