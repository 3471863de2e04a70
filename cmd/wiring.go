package cmd

import (
	"github.com/spf13/cobra"
)

// BuildCommandTree returns a root command with every subcommand registered
// against svc.
func BuildCommandTree(svc Services) *cobra.Command {
	root := NewRootCmd()
	root.AddCommand(
		NewGenerateCmd(svc),
		NewInspectCmd(),
		NewBoundsCmd(),
		NewServeCmd(svc),
	)
	return root
}
