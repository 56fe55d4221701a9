package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askiada/go-anvio/pkg/mapping"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the supported read mapping tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, tool := range mapping.Tools() {
				profile, err := tool.Profile()
				if err != nil {
					return err
				}
				seeded := ""
				if profile.Seeded {
					seeded = " (seeded)"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", tool, seeded)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}
