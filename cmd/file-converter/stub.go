// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/file-converter/internal/stubserver"
)

var stubCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local stand-in for the conversion service",
	Long: `Stub-server implements the conversion service's HTTP contract
(POST /convert, GET /download/{path}, GET /health) with placeholder
artifacts: txt, html and a one-page pdf. Other formats are answered with a
declared failure. Use it to exercise the client without the real service.`,
	RunE: runStub,
}

func init() {
	stubCmd.Flags().String("addr", "", "listen address (default :5000)")
	stubCmd.Flags().String("storage-dir", "", "directory for generated artifacts (default stub-data)")

	viper.BindPFlag("stub.addr", stubCmd.Flags().Lookup("addr"))
	viper.BindPFlag("stub.storage_dir", stubCmd.Flags().Lookup("storage-dir"))

	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	srv, err := stubserver.New(stubConfig(), newLogger(cmd, slog.LevelInfo))
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
