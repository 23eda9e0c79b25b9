package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tagcheck/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Serve diagnostics to editors over the Language Server Protocol (stdio)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, err := cmd.Flags().GetDuration("debounce")
		if err != nil {
			return fmt.Errorf("failed to get debounce flag: %w", err)
		}
		levelFlag, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return fmt.Errorf("failed to get log-level flag: %w", err)
		}
		level, err := parseLogLevel(levelFlag)
		if err != nil {
			return err
		}
		server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
			Debounce: debounce,
			Logger:   newLogger(os.Stderr, level),
		})
		err = server.Run(cmd.Context())
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		return err
	},
}

func init() {
	lspCmd.Flags().Duration("debounce", 0, "delay before re-checking edited buffers (0 = 300ms)")
	lspCmd.Flags().String("log-level", "warn", "log level on stderr (debug|info|warn|error)")
}
