package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eykd/timeid-go/pkg/timeid"
)

// ErrReversedRange is returned when --to is earlier than --from.
var ErrReversedRange = errors.New("--to must not be before --from")

// BoundsResult holds inclusive bounds for a range scan over stored IDs.
type BoundsResult struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// NewBoundsCmd creates the bounds command.
func NewBoundsCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Print inclusive ID bounds for a time range",
		Long: "Bounds prints the smallest and largest IDs that can be generated " +
			"between --from and --to (RFC 3339, inclusive to the second). Without " +
			"times it prints the global minimum and maximum.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := computeBounds(from, to)
			if err != nil {
				return err
			}
			if GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "min\t%s\nmax\t%s\n", result.Min, result.Max)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of the range (RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "End of the range (RFC 3339)")

	return cmd
}

func computeBounds(from, to string) (*BoundsResult, error) {
	result := &BoundsResult{Min: timeid.MinValue, Max: timeid.MaxValue}

	var start, end time.Time
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, &ContextError{Op: "parsing --from", Err: err}
		}
		start = t
		result.Min = timeid.LowerBound(t)
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, &ContextError{Op: "parsing --to", Err: err}
		}
		end = t
		result.Max = timeid.UpperBound(t)
	}
	if from != "" && to != "" && end.Before(start) {
		return nil, ErrReversedRange
	}
	return result, nil
}
