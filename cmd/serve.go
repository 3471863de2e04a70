package cmd

import (
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command backed by svc.
func NewServeCmd(svc Services) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve IDs over HTTP",
		Long:         "Serve runs the HTTP ID service until interrupted.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return svc.Serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")

	return cmd
}
