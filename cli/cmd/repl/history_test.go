package repl

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
)

func TestHistory_WriteDedupes(t *testing.T) {
	h := NewHistory("")

	for _, entry := range []string{"next", "trim", "next", "  trim  ", "", "upper"} {
		if err := h.Write(entry); err != nil {
			t.Fatalf("Write(%q): %v", entry, err)
		}
	}

	want := []string{"next", "trim", "upper"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Write("next")
	_ = h.Write("trim")

	if got, err := h.Entry(0); err != nil || got != "next" {
		t.Errorf("Entry(0) = (%q, %v), want (%q, nil)", got, err, "next")
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.Entry(i); err != ErrOutOfBounds {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, entry := range []string{"next", "trim", "next"} {
		if err := h.Write(entry); err != nil {
			t.Fatalf("Write(%q): %v", entry, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "trim\nnext\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if got, want := loaded.Entries(), []string{"trim", "next"}; !slices.Equal(got, want) {
		t.Errorf("loaded Entries() = %v, want %v", got, want)
	}
}

func TestHistory_Limit(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 10 {
		_ = h.Write("goto: " + strconv.Itoa(i))
	}

	if got := h.Len(); got != maxHistory {
		t.Fatalf("Len() = %d, want %d", got, maxHistory)
	}

	if got, _ := h.Entry(0); got != "goto: 10" {
		t.Errorf("Entry(0) = %q, want %q", got, "goto: 10")
	}
}
