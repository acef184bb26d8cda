// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/file-converter/internal/catalog"
	"github.com/pdiddy/file-converter/internal/controller"
	"github.com/pdiddy/file-converter/internal/convert"
	"github.com/pdiddy/file-converter/internal/download"
	"github.com/pdiddy/file-converter/internal/view"
	"github.com/pdiddy/file-converter/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a file and download the result",
	Long: `Convert uploads FILE to the conversion service with the chosen output
format. Progress and the result are printed as they happen; text results
are previewed inline. On success the converted artifact is downloaded to
the output directory unless --no-download is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("format", "f", "", "target format (see \"formats\")")
	convertCmd.Flags().String("server", "", "conversion service base URL (default http://localhost:5000)")
	convertCmd.Flags().StringP("output", "o", "", "directory for downloaded artifacts (default .)")
	convertCmd.Flags().Bool("no-download", false, "skip downloading the converted artifact")
	convertCmd.MarkFlagRequired("format")

	viper.BindPFlag("service.base_url", convertCmd.Flags().Lookup("server"))
	viper.BindPFlag("output_dir", convertCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := clientConfig()
	format, _ := cmd.Flags().GetString("format")
	noDownload, _ := cmd.Flags().GetBool("no-download")
	logger := newLogger(cmd, slog.LevelWarn)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	file, err := types.LocalFile(args[0])
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Service.Timeout}
	ctrl := controller.New(controller.Deps{
		Config:  cfg,
		Catalog: cat,
		Backend: convert.NewHTTPBackend(client, cfg.Service),
		Saver: &download.Fetcher{
			Client:     client,
			Dir:        cfg.OutputDir,
			UserAgent:  cfg.Service.UserAgent,
			MaxRetries: cfg.Service.MaxRetries,
			Logger:     logger,
		},
		Sink:   view.NewTerminal(cmd.OutOrStdout()),
		Logger: logger,
	})
	defer ctrl.Close()

	ctrl.SelectFile(file)
	if err := ctrl.SelectFormat(types.FormatChoice(format)); err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := ctrl.Convert(ctx); err != nil {
		return err
	}
	if noDownload {
		return nil
	}

	path, err := ctrl.Download(ctx)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "saved:     %s\n", path)
	}
	return nil
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog(cfg types.ClientConfig) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogFile)
}
