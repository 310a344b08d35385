package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func loadConfig(t *testing.T, text string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}

	return r
}

func TestResolve(t *testing.T) {
	r := loadConfig(t, `
log-level: debug
log_format: json
log-pretty: false
indent: 4
ratio: 0.5
path: [/a, 2]
`)

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-pretty", false},
		{"indent", "4"},
		{"ratio", "0.5"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	got, _ := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "path"}})

	items, ok := got.([]any)
	if !ok || len(items) != 2 || items[0] != "/a" || items[1] != "2" {
		t.Errorf("Resolve(path) = %#v, want [/a 2]", got)
	}
}

func TestResolve_EmptyOrInvalid(t *testing.T) {
	for _, text := range []string{"", "- not\n- a mapping\n", "log-level: [unterminated\n"} {
		r := loadConfig(t, text)

		got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
		if err != nil || got != nil {
			t.Errorf("Resolve() with %q = (%v, %v), want (nil, nil)", text, got, err)
		}

		if err := r.Validate(nil); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	}
}

func TestResolve_OverriddenByFlags(t *testing.T) {
	var cli struct {
		Level  string `default:"info" name:"level"`
		Pretty bool   `default:"true" name:"pretty" negatable:""`
	}

	parser, err := kong.New(&cli,
		kong.Resolvers(loadConfig(t, "level: warn\npretty: false\n")),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--level=error"}); err != nil {
		t.Fatal(err)
	}

	if cli.Level != "error" {
		t.Errorf("Level = %q, want %q", cli.Level, "error")
	}

	if cli.Pretty {
		t.Errorf("Pretty = true, want false from config")
	}
}
