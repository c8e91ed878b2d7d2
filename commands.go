package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/quickly-find/auth"
	"github.com/danielhkuo/quickly-find/cliparse"
	"github.com/danielhkuo/quickly-find/db"
	"github.com/danielhkuo/quickly-find/middleware"
	"github.com/danielhkuo/quickly-find/models"
	"github.com/danielhkuo/quickly-find/router"
	"github.com/danielhkuo/quickly-find/voterindex"
)

func newRootCmd() *cobra.Command {
	var cfg cliparse.Config

	rootCmd := &cobra.Command{
		Use:           "quickly-find",
		Short:         "quickly-find - voter name typeahead service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Resolve(); err != nil {
				return err
			}
			level, err := cfg.SlogLevel()
			if err != nil {
				return err
			}
			setupLogger(os.Stderr, level)
			return nil
		},
	}
	cliparse.Bind(rootCmd.PersistentFlags(), &cfg)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cfg)
			},
		},
		&cobra.Command{
			Use:   "rebuild",
			Short: "Rebuild the voter index from the database and refresh the cache",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runRebuild(cmd.Context(), cfg, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Load the voter index and print its statistics",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStats(cmd.Context(), cfg, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "admin-key",
			Short: "Print the admin key for index rebuilds",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(auth.IndexAdminScope, cfg.AdminKeySalt))
				return err
			},
		},
	)

	return rootCmd
}

// setupLogger uses text output on a terminal and JSON otherwise
func setupLogger(w *os.File, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// openService connects the database and the optional Redis cache
func openService(cfg cliparse.Config) (*voterindex.Service, func(), error) {
	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	closers := []func() error{conn.Close}

	var cache voterindex.SnapshotCache
	if cfg.RedisURL != "" {
		client, err := voterindex.NewRedisClient(cfg.RedisURL)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		cache = voterindex.NewRedisCache(client, cfg.CachePrefix, cfg.CacheTTL)
		closers = append(closers, client.Close)
		slog.Info("voter index cache enabled", "prefix", cfg.CachePrefix, "ttl", cfg.CacheTTL)
	} else {
		slog.Info("voter index cache disabled")
	}

	svc := voterindex.NewService(voterindex.NewSQLSource(conn), cache, voterindex.Config{CacheTTL: cfg.CacheTTL})
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return svc, cleanup, nil
}

func runServe(cfg cliparse.Config) error {
	svc, cleanup, err := openService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Warm the index so the first search doesn't pay for the build
	go func() {
		if err := svc.Initialize(context.Background(), false); err != nil {
			slog.Warn("voter index warmup failed, searches will query the database", "error", err)
		}
	}()

	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(svc, cfg)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}

func runRebuild(ctx context.Context, cfg cliparse.Config, out io.Writer) error {
	svc, cleanup, err := openService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	status := svc.Rebuild(ctx)
	if err := printJSON(out, status); err != nil {
		return err
	}
	if status.Status != models.StatusSuccess {
		return errors.New(status.Message)
	}
	return nil
}

func runStats(ctx context.Context, cfg cliparse.Config, out io.Writer) error {
	svc, cleanup, err := openService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// a degraded index still has stats worth printing
	if err := svc.Initialize(ctx, false); err != nil {
		slog.Warn("voter index initialization failed", "error", err)
	}
	return printJSON(out, svc.Stats())
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
