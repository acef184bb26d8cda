// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the file-converter CLI. It drives the
// converter controller headless, rendering page updates as terminal status
// lines, and can run a local stub of the conversion service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/file-converter/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the file-converter CLI.
var rootCmd = &cobra.Command{
	Use:   "file-converter",
	Short: "Convert files through a conversion service",
	Long: `file-converter uploads a file to a conversion service, shows progress
while the service works, previews text results and downloads the converted
artifact.

Use "stub-server" to run a local stand-in for the service during
development.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./file-converter.yaml or ~/.config/file-converter/file-converter.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("file-converter")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "file-converter"))
		}
	}

	viper.SetEnvPrefix("FILE_CONVERTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientConfig assembles the client configuration from viper. Zero values
// are filled by WithDefaults.
func clientConfig() types.ClientConfig {
	cfg := types.ClientConfig{
		Service: types.ServiceConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("service.timeout"),
				UserAgent: viper.GetString("service.user_agent"),
			},
			BaseURL:    viper.GetString("service.base_url"),
			MaxRetries: viper.GetInt("service.max_retries"),
		},
		Progress: types.ProgressConfig{
			TickInterval: viper.GetDuration("progress.tick_interval"),
			MaxIncrement: viper.GetFloat64("progress.max_increment"),
			Ceiling:      viper.GetFloat64("progress.ceiling"),
			Deadline:     viper.GetDuration("progress.deadline"),
		},
		Notifications: types.NotificationConfig{
			DisplayDuration: viper.GetDuration("notifications.display_duration"),
			ExitDuration:    viper.GetDuration("notifications.exit_duration"),
		},
		CatalogFile: viper.GetString("catalog_file"),
		OutputDir:   viper.GetString("output_dir"),
	}
	return cfg.WithDefaults()
}

// stubConfig assembles the stub server configuration from viper.
func stubConfig() types.StubServerConfig {
	cfg := types.StubServerConfig{
		Addr:           viper.GetString("stub.addr"),
		StorageDir:     viper.GetString("stub.storage_dir"),
		MaxUploadBytes: viper.GetInt64("stub.max_upload_bytes"),
	}
	return cfg.WithDefaults()
}

// newLogger returns a text logger on stderr. --verbose lowers the level to
// debug.
func newLogger(cmd *cobra.Command, level slog.Level) *slog.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
