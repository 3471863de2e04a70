package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// GenerateResult holds the outcome of a generate operation.
type GenerateResult struct {
	IDs        []string `json:"ids"`
	AppendedTo string   `json:"appended_to,omitempty"`
}

// NewGenerateCmd creates the generate command backed by svc.
func NewGenerateCmd(svc Services) *cobra.Command {
	var (
		count       int
		appendPath  string
		lockTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new IDs",
		Long: "Generate prints new IDs, one per line. With --append the IDs are " +
			"appended to a file while holding an advisory lock on FILE.lock.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			ids, err := svc.Generate(cmd.Context(), count)
			if err != nil {
				return err
			}
			result := &GenerateResult{IDs: ids}

			if appendPath != "" {
				timeout := lockTimeout
				if !cmd.Flags().Changed("lock-timeout") {
					cfg, err := svc.Config()
					if err != nil {
						return err
					}
					timeout = cfg.Append.LockTimeout
				}
				if err := svc.AppendLines(cmd.Context(), appendPath, ids, timeout); err != nil {
					return &ContextError{Op: "append", Path: appendPath, Err: err}
				}
				result.AppendedTo = appendPath
			}

			out := cmd.OutOrStdout()
			switch {
			case GetJSON():
				writeJSON(out, result)
			case appendPath != "":
				printer().Fprintf(out, msgAppended, len(ids), appendPath)
			default:
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of IDs to generate")
	cmd.Flags().StringVar(&appendPath, "append", "", "Append IDs to `FILE` instead of printing them")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 0, "How long to wait for the append lock (default from config)")

	return cmd
}
