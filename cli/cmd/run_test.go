package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardnew/lotr/lang"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ini.yaml", `
- repeat:
    any:
      - all: [{starts: "#"}, remove]
      - all: [{replace: [!re '(\w+)\s*=\s*(\w+)', !fmt '{2}: {1}']}, next]
      - next
`)
	writeFile(t, dir, "need.yaml", "- next: needle\n- remove\n")
	writeFile(t, dir, "halt.yaml", "- abort: stop\n")
	writeFile(t, dir, "edit-halt.yaml", "- upper\n- abort: stop\n")
	writeFile(t, dir, "spin.yaml", "- repeat: {goto: 0}\n")

	tests := []struct {
		name    string
		run     Run
		stdin   string
		wantOut string
		wantErr error
	}{
		{
			name:    "passed",
			run:     Run{Script: "ini"},
			stdin:   "# comment\nname = lotr\n[section]\n",
			wantOut: "lotr: name\n[section]\n",
		},
		{
			name:    "failed_writes_buffer",
			run:     Run{Script: "need"},
			stdin:   "a\nb\n",
			wantOut: "a\nb\n",
			wantErr: StatusFailed,
		},
		{
			name:    "failed_quiet",
			run:     Run{Script: "need", Quiet: true},
			stdin:   "a\nb\n",
			wantErr: StatusFailed,
		},
		{
			name:    "aborted_writes_nothing",
			run:     Run{Script: "halt"},
			stdin:   "a\n",
			wantErr: StatusAborted,
		},
		{
			name:    "aborted_after_edit_writes_nothing",
			run:     Run{Script: "edit-halt"},
			stdin:   "a\nb\n",
			wantErr: StatusAborted,
		},
		{
			name:    "timeout",
			run:     Run{Script: "spin", Timeout: 20 * time.Millisecond},
			stdin:   "a\n",
			wantErr: StatusAborted,
		},
		{
			name:    "missing_script",
			run:     Run{Script: "nope"},
			wantErr: ErrScriptNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testStreams(tt.stdin)
			ctx = WithScriptPath(ctx, []string{dir})

			err := tt.run.Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			if got := out.String(); got != tt.wantOut {
				t.Errorf("Run() wrote %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func TestRun_OutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", "a\nb\n")
	writeFile(t, dir, "upcase.yaml", "- repeat: [upper, next]\n")

	output := filepath.Join(dir, "out.txt")

	ctx, out, _ := testStreams("")
	ctx = WithScriptPath(ctx, []string{dir})

	r := Run{Script: "upcase", Files: []string{input}, Output: output}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if out.Len() != 0 {
		t.Errorf("Run() wrote %q to stdout, want nothing", out.String())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "A\nB\n"; got != want {
		t.Errorf("output file = %q, want %q", got, want)
	}
}

func TestRun_AbortKeepsOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", "a\n")
	output := writeFile(t, dir, "out.txt", "previous\n")
	writeFile(t, dir, "halt.yaml", "- upper\n- abort\n")

	ctx, _, _ := testStreams("")
	ctx = WithScriptPath(ctx, []string{dir})

	r := Run{Script: "halt", Files: []string{input}, Output: output}
	if err := r.Run(ctx); !errors.Is(err, StatusAborted) {
		t.Fatalf("Run() error = %v, want %v", err, StatusAborted)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "previous\n"; got != want {
		t.Errorf("output file = %q, want %q", got, want)
	}
}

func TestStatusOf(t *testing.T) {
	var status ExitStatus

	if err := statusOf(lang.Passed); err != nil {
		t.Errorf("statusOf(Passed) = %v, want nil", err)
	}

	if !errors.As(statusOf(lang.Failed), &status) || status != StatusFailed {
		t.Errorf("statusOf(Failed) = %d, want %d", status, StatusFailed)
	}

	if got := StatusAborted.Error(); got != "script aborted" {
		t.Errorf("StatusAborted.Error() = %q", got)
	}
}
