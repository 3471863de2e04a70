package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/eykd/timeid-go/pkg/timeid"
)

func TestBoundsCmd_Global(t *testing.T) {
	stdout, _, code := runTree(&mockServices{}, "bounds")

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	want := "min\t" + timeid.MinValue + "\nmax\t" + timeid.MaxValue + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestBoundsCmd_Range(t *testing.T) {
	stdout, _, code := runTree(&mockServices{}, "bounds", "--json",
		"--from", "2019-04-28T18:06:53Z", "--to", "2019-04-28T18:07:00+00:00")

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var got BoundsResult
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	wantMin := timeid.LowerBound(time.Unix(1556474813, 0))
	wantMax := timeid.UpperBound(time.Unix(1556474820, 0))
	if got.Min != wantMin || got.Max != wantMax {
		t.Errorf("bounds = %+v, want {%s %s}", got, wantMin, wantMax)
	}
	if !strings.HasPrefix(got.Min, "1KDSj") {
		t.Errorf("min = %q, want 1KDSj prefix", got.Min)
	}
}

func TestComputeBounds_Errors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantOp   string
		wantErr  error
	}{
		{name: "bad from", from: "yesterday", wantOp: "parsing --from"},
		{name: "bad to", to: "2019-04-28", wantOp: "parsing --to"},
		{name: "reversed", from: "2020-01-01T00:00:00Z", to: "2019-01-01T00:00:00Z", wantErr: ErrReversedRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeBounds(tt.from, tt.to)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			var ce *ContextError
			if tt.wantOp != "" && (!errors.As(err, &ce) || ce.Op != tt.wantOp) {
				t.Errorf("error = %v, want op %q", err, tt.wantOp)
			}
		})
	}
}

func TestBoundsCmd_ErrorExitCode(t *testing.T) {
	_, stderr, code := runTree(&mockServices{}, "bounds", "--from", "soon")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(stderr, "timeid: parsing --from: ") {
		t.Errorf("stderr = %q", stderr)
	}
}
