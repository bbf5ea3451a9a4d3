// Command sareeimport loads a CSV or XLSX product file into the configured
// catalog store.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adsarees/storefront/config"
	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/importer"
	"github.com/adsarees/storefront/internal/notify"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		notifyNew  bool
	)
	cmd := &cobra.Command{
		Use:          "sareeimport FILE",
		Short:        "Import sarees from a CSV or XLSX file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, args[0], notifyNew)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (default storefront.yml)")
	cmd.Flags().BoolVar(&notifyNew, "notify", false, "Send the new product notification for each imported row")
	return cmd
}

func run(ctx context.Context, configPath, file string, notifyNew bool) error {
	cfg := config.LoadConfig(configPath)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.InitDirs()
	cfg.Backup.Enabled = false

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	im := importer.New(application.Store().Products)
	if notifyNew {
		bus := application.Bus()
		im.OnCreated = func(p *domain.Product) {
			bus.Publish(notify.TopicProductCreated, p)
		}
	}
	result, err := im.ImportFile(ctx, filepath.Base(file), f)
	if err != nil {
		return err
	}
	if result.Imported > 0 {
		application.Bus().Publish(notify.TopicCatalogChanged)
	}
	application.Audit(ctx, "sareeimport", "", domain.OptImport,
		fmt.Sprintf("imported %s: %d ok, %d failed", filepath.Base(file), result.Imported, result.Failed))

	fmt.Printf("imported %d, failed %d\n", result.Imported, result.Failed)
	for _, e := range result.Errors {
		fmt.Printf("  row %d %s: %s\n", e.Row, e.ID, e.Message)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d rows failed", result.Failed)
	}
	return nil
}
