package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	v, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q): %v", name, err)
	}

	return v
}

func TestResolve_NestedKey(t *testing.T) {
	src := `
config:
  log-level: debug
  log_format: json
  max-call-depth: 500
  log-pretty: false
  path:
    - /opt/dash
    - lib
`

	r, err := resolve(t.Context(), "config")(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"max-call-depth", "500"},
		{"log-pretty", false},
		{"missing", nil},
	}

	for _, tt := range tests {
		if got := resolveFlag(t, r, tt.flag); got != tt.want {
			t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
		}
	}

	path, ok := resolveFlag(t, r, "path").([]any)
	if !ok || !slices.Equal(path, []any{"/opt/dash", "lib"}) {
		t.Errorf("Resolve(path) = %#v", path)
	}
}

func TestResolve_TopLevel(t *testing.T) {
	r, err := resolve(t.Context(), "config")(strings.NewReader("log-level: warn\n"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if got := resolveFlag(t, r, "log-level"); got != "warn" {
		t.Errorf("Resolve(log-level) = %#v, want %q", got, "warn")
	}
}

func TestResolve_IgnoresBadInput(t *testing.T) {
	for _, src := range []string{"", "config: [unterminated\n", "- just\n- a list\n"} {
		r, err := resolve(t.Context(), "config")(strings.NewReader(src))
		if err != nil {
			t.Errorf("resolve(%q) error = %v, want nil", src, err)

			continue
		}

		if got := resolveFlag(t, r, "log-level"); got != nil {
			t.Errorf("resolve(%q): Resolve(log-level) = %#v, want nil", src, got)
		}
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{uint64(7), "7"},
		{int64(-3), "-3"},
		{1.5, "1.5"},
		{"text", "text"},
		{true, true},
		{nil, nil},
	}

	for _, tt := range tests {
		if got := flagValue(tt.in); got != tt.want {
			t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
