package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"besttweets/internal/cmdlog"
	"besttweets/internal/config"
	"besttweets/internal/logging"
	"besttweets/internal/theme"
)

var (
	configPath string
	initPath   string

	rootCmd = &cobra.Command{
		Use:   "besttweets",
		Short: "Publishes a daily edition of a subscriber's best Tweets",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// a missing .env is normal outside local development
			_ = godotenv.Load()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("serve", configPath, func(fields map[string]any) error { return serve(cmd.Context(), fields) })
		},
	}

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", initPath, func(fields map[string]any) error { return writeDefaultConfig(cmd, fields) })
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "./besttweets.yaml", "path to config file")
	initCmd.Flags().StringVar(&initPath, "path", "./besttweets.yaml", "path to write config")
	rootCmd.AddCommand(serveCmd, initCmd)
}

func writeDefaultConfig(cmd *cobra.Command, fields map[string]any) error {
	if err := config.Save(initPath, config.Default()); err != nil {
		return err
	}
	abs, _ := filepath.Abs(initPath)
	fields["written"] = abs
	theme.PrintBanner(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
	return nil
}

func serve(parent context.Context, fields map[string]any) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fields["storage"] = cfg.Storage.Driver
	fields["environment"] = cfg.Environment
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.New(cfg.Development())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
