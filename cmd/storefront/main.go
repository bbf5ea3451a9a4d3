// Command storefront runs the saree catalog API and its back office.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/adminapi"
	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/storefront"
	"github.com/adsarees/storefront/internal/webserver"
)

const (
	Version = "1.0.0"
	appName = "storefront"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Saree storefront API and back office",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default storefront.yml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})
	cmd.AddCommand(initDBCmd(&configPath))
	cmd.AddCommand(backupCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func loadConfig(path string) (*config.AppConfig, error) {
	cfg := config.LoadConfig(path)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.InitDirs()
	return cfg, nil
}

func serve(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	webserver.Init(application)
	adminapi.Init()
	storefront.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return webserver.Listen(gctx)
	})
	zap.L().Info("storefront started",
		zap.String("version", Version),
		zap.String("database", cfg.Database.Type),
		zap.String("store", application.Store().Driver))
	err = g.Wait()
	zap.L().Info("storefront stopped")
	return err
}

func initDBCmd(configPath *string) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Migrate the schema and seed an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			application := app.NewApplication(cfg)
			application.Init(cfg)
			defer application.Release()
			if drop {
				application.InitDb()
				zap.L().Info("database schema recreated")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Drop every table and recreate an empty schema")
	return cmd
}

func backupCmd(configPath *string) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a backup set now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			application := app.NewApplication(cfg)
			application.Init(cfg)
			defer application.Release()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			result, err := application.RunBackup(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("backup %s written to %s (%d files, %d pruned)\n",
				result.Name, result.Dir, len(result.Files), len(result.Pruned))
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Backup timeout")
	return cmd
}
