package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// writeFile creates a file named name in dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

// testStreams returns a context whose commands read stdin and write to the
// returned buffers.
func testStreams(stdin string) (context.Context, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	ctx := WithStreams(context.Background(), Streams{
		In:  strings.NewReader(stdin),
		Out: &out,
		Err: &errOut,
	})

	return ctx, &out, &errOut
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single_no_newline", "a", []string{"a"}},
		{"single_newline", "a\n", []string{"a"}},
		{"blank_line", "\n", []string{""}},
		{"trailing_blank", "a\n\n", []string{"a", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"multiple", "a\nb\nc", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("splitLines(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer

	if err := writeLines(&buf, []string{"a", "", "c"}); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "a\n\nc\n"; got != want {
		t.Errorf("writeLines() wrote %q, want %q", got, want)
	}
}

func TestReadInput_Stdin(t *testing.T) {
	ctx, _, _ := testStreams("x\ny\n")

	lines, err := readInput(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}

	if want := []string{"x", "y"}; !slices.Equal(lines, want) {
		t.Errorf("readInput(nil) = %q, want %q", lines, want)
	}
}

func TestReadInput_Files(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a1\na2\n")
	b := writeFile(t, dir, "b.txt", "b1")

	link := filepath.Join(dir, "link.txt")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	ctx, _, _ := testStreams("s1\n")

	lines, err := readInput(ctx, []string{"-", a, b, link, "-", a})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"a1", "a2", "b1", "s1"}
	if !slices.Equal(lines, want) {
		t.Errorf("readInput() = %q, want %q", lines, want)
	}
}

func TestReadInput_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx, _, _ := testStreams("")

	for _, src := range []string{dir, filepath.Join(dir, "missing.txt")} {
		_, err := readInput(ctx, []string{src})
		if !errors.Is(err, ErrReadInput) {
			t.Errorf("readInput(%q) error = %v, want %v", src, err, ErrReadInput)
		}
	}
}

func TestResolveScript(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	ini := writeFile(t, second, "ini.yaml", "- next\n")
	bare := writeFile(t, first, "bare", "- next\n")
	shadow := writeFile(t, first, "join.yml", "- next\n")
	writeFile(t, second, "join.yaml", "- next\n")

	dirs := []string{first, second}

	tests := []struct {
		name string
		want string
	}{
		{ini, ini},
		{"ini", ini},
		{"bare", bare},
		{"join", shadow},
	}

	for _, tt := range tests {
		got, err := resolveScript(tt.name, dirs)
		if err != nil {
			t.Errorf("resolveScript(%q) error: %v", tt.name, err)

			continue
		}

		if got != tt.want {
			t.Errorf("resolveScript(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	for _, name := range []string{"missing", filepath.Join("sub", "ini"), first} {
		if _, err := resolveScript(name, dirs); !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("resolveScript(%q) error = %v, want %v", name, err, ErrScriptNotFound)
		}
	}
}

func TestLoadScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "upcase.yaml", "- repeat: [upper, next]\n")
	writeFile(t, dir, "broken.yaml", "- frobnicate\n")

	ctx := WithScriptPath(context.Background(), []string{dir})

	script, err := loadScript(ctx, "upcase")
	if err != nil {
		t.Fatal(err)
	}

	if script.Name != "upcase" {
		t.Errorf("script.Name = %q, want %q", script.Name, "upcase")
	}

	if _, err := loadScript(ctx, "broken"); !errors.Is(err, ErrLoadScript) {
		t.Errorf("loadScript(broken) error = %v, want %v", err, ErrLoadScript)
	}
}

func TestError(t *testing.T) {
	err := ErrLoadScript.Wrap(os.ErrNotExist).With()

	if !errors.Is(err, ErrLoadScript) {
		t.Error("wrapped error does not match its sentinel")
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped error does not match its cause")
	}

	if errors.Is(err, ErrReadInput) {
		t.Error("wrapped error matches an unrelated sentinel")
	}

	if got, want := err.Error(), "load script: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
