package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tagcheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		info := version.Current()
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		case "pretty":
			colorOn, err := useColor(cmd)
			if err != nil {
				return err
			}
			if !colorOn {
				fmt.Fprintln(out, info.String())
				return nil
			}
			info.Version = version.Colored()
			fmt.Fprintln(out, info.String())
			return nil
		}
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
