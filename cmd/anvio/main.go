package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "anvio",
		Short:        "Build an anvi'o contigs database and profile from an assembly and its reads",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newToolsCmd())

	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
