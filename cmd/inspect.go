package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eykd/timeid-go/pkg/timeid"
)

// ErrNoInput is returned when inspect receives no IDs.
var ErrNoInput = errors.New("no ids given")

// InspectEntry describes one inspected ID.
type InspectEntry struct {
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Timestamp *uint32    `json:"timestamp,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// InspectResult holds the outcome of an inspect operation.
type InspectResult struct {
	IDs []InspectEntry `json:"ids"`
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [id...]",
		Short: "Show when IDs were created",
		Long: "Inspect prints the creation time and raw timestamp of each ID. " +
			"With no arguments, IDs are read from standard input, one per line.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args
			if len(ids) == 0 {
				var err error
				if ids, err = readLines(cmd); err != nil {
					return err
				}
			}
			if len(ids) == 0 {
				return ErrNoInput
			}

			result := inspectIDs(ids)

			invalid := 0
			p := printer()
			for _, e := range result.IDs {
				if e.Error != "" {
					invalid++
					if !GetJSON() {
						fmt.Fprintf(cmd.ErrOrStderr(), "timeid: %s\n", e.Error)
					}
					continue
				}
				if !GetJSON() {
					p.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", e.ID, e.CreatedAt.Format(time.RFC3339), *e.Timestamp)
				}
			}
			if GetJSON() {
				writeJSON(cmd.OutOrStdout(), result)
			}

			if invalid > 0 {
				return &InvalidInputError{Count: invalid}
			}
			return nil
		},
	}
}

func inspectIDs(ids []string) *InspectResult {
	result := &InspectResult{IDs: make([]InspectEntry, 0, len(ids))}
	for _, id := range ids {
		entry := InspectEntry{ID: id}
		created, err := timeid.CreatedAt(id)
		if err != nil {
			entry.Error = err.Error()
		} else {
			ts := uint32(created.Unix() - timeid.EpochOffset)
			entry.CreatedAt = &created
			entry.Timestamp = &ts
		}
		result.IDs = append(result.IDs, entry)
	}
	return result
}

// readLines reads non-blank lines from the command's standard input.
func readLines(cmd *cobra.Command) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ids: %w", err)
	}
	return lines, nil
}
