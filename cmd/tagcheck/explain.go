package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tagcheck/internal/diag"
	"tagcheck/internal/facts"
	"tagcheck/internal/rules"
)

var explainCmd = &cobra.Command{
	Use:   "explain [tag...]",
	Short: "Show where each restriction tag is allowed",
	Long: `Print the applicability table for the given tags (all tags by default),
assuming a public element declared in a public type of a named package.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := parseTags(args)
		if err != nil {
			return err
		}
		writeExplain(cmd.OutOrStdout(), tags, diag.NewCatalog())
		return nil
	},
}

func parseTags(args []string) ([]facts.Tag, error) {
	if len(args) == 0 {
		return facts.AllTags, nil
	}
	tags := make([]facts.Tag, 0, len(args))
	for _, arg := range args {
		tag, ok := facts.ParseTag(arg)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", arg)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func writeExplain(w io.Writer, tags []facts.Tag, catalog *diag.Catalog) {
	for i, tag := range tags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", tag)
		for _, v := range rules.Row(tag) {
			reason, invalid := v.Applicability.Reason()
			if !invalid {
				fmt.Fprintf(w, "  %-18s valid\n", v.Kind)
				continue
			}
			declaring := rules.DefaultContext(v.Kind).DeclaringTypeKind
			fmt.Fprintf(w, "  %-18s not supported on %s\n", v.Kind, catalog.Phrase(reason, v.Kind, declaring))
		}
	}
}
