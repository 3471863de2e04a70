package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/eykd/timeid-go/pkg/timeid"
)

// sampleID was generated at 2019-04-28T18:06:53Z.
var sampleID = "1KDSjF" + strings.Repeat("$", 21)

func TestInspectCmd_Human(t *testing.T) {
	stdout, stderr, code := runTree(&mockServices{}, "inspect", sampleID, timeid.MinValue)

	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	want := sampleID + "\t2019-04-28T18:06:53Z\t156,474,813\n" +
		timeid.MinValue + "\t2014-05-13T16:53:20Z\t0\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestInspectCmd_JSON(t *testing.T) {
	stdout, _, code := runTree(&mockServices{}, "inspect", "--json", sampleID)

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	var got InspectResult
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(got.IDs) != 1 {
		t.Fatalf("got %d entries, want 1", len(got.IDs))
	}
	e := got.IDs[0]
	if e.CreatedAt == nil || !e.CreatedAt.Equal(time.Unix(1556474813, 0)) {
		t.Errorf("created_at = %v", e.CreatedAt)
	}
	if e.Timestamp == nil || *e.Timestamp != 0x09539dbd {
		t.Errorf("timestamp = %v", e.Timestamp)
	}
	if e.Error != "" {
		t.Errorf("error = %q, want empty", e.Error)
	}
}

func TestInspectCmd_InvalidExitsTwo(t *testing.T) {
	stdout, stderr, code := runTree(&mockServices{}, "inspect", sampleID, "bogus", "also bogus")

	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.HasPrefix(stdout, sampleID+"\t") {
		t.Errorf("valid IDs should still be printed, stdout = %q", stdout)
	}
	if !strings.Contains(stderr, `timeid: invalid id "bogus": invalid id length`) {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.HasSuffix(stderr, "timeid: 2 invalid ids\n") {
		t.Errorf("stderr should end with summary, got %q", stderr)
	}
}

func TestInspectCmd_InvalidJSON(t *testing.T) {
	stdout, stderr, code := runTree(&mockServices{}, "inspect", "--json", "bogus")

	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	var got InspectResult
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if got.IDs[0].Error == "" || got.IDs[0].CreatedAt != nil {
		t.Errorf("entry = %+v", got.IDs[0])
	}
	if strings.Contains(stderr, "invalid id length") {
		t.Errorf("per-ID errors belong in the JSON output, stderr = %q", stderr)
	}
}

func TestInspectCmd_Stdin(t *testing.T) {
	root := BuildCommandTree(&mockServices{})
	root.SetContext(context.Background())
	root.SetIn(strings.NewReader("\n" + sampleID + "\n  \n" + timeid.MaxValue + "\n"))
	out := new(bytes.Buffer)

	code := RunCLI(root, []string{"inspect"}, out, new(bytes.Buffer))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) != 2 {
		t.Errorf("got %d lines, want 2: %q", len(lines), out.String())
	}
}

func TestInspectCmd_NoInput(t *testing.T) {
	root := BuildCommandTree(&mockServices{})
	root.SetContext(context.Background())
	root.SetIn(strings.NewReader(""))
	errOut := new(bytes.Buffer)

	code := RunCLI(root, []string{"inspect"}, new(bytes.Buffer), errOut)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if errOut.String() != "timeid: no ids given\n" {
		t.Errorf("stderr = %q", errOut.String())
	}
}
