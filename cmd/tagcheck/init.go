package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagcheck/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Write a default tagcheck.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path, err := project.WriteDefault(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
		return nil
	},
}
