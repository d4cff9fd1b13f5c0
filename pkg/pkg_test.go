package pkg

import (
	"errors"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "dash" {
		t.Errorf("Name = %q, want %q", Name, "dash")
	}
}

func TestVersion(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)
	if !semver.MatchString(Version) {
		t.Errorf("Version = %q, want a semantic version", Version)
	}

	if Version != strings.TrimSpace(version) {
		t.Errorf("Version = %q has surrounding space", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Author = %v, missing ardnew", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestError_Chain(t *testing.T) {
	base := errors.New("disk full")
	err := ErrReadInput.Wrap(base)

	if got, want := err.Error(), "failed to read input: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, base) {
		t.Error("errors.Is(err, base) = false")
	}

	if !errors.Is(err, ErrReadInput) {
		t.Error("errors.Is(err, ErrReadInput) = false")
	}

	if errors.Is(err, ErrSourceNotFound) {
		t.Error("errors.Is(err, ErrSourceNotFound) = true")
	}

	if errors.Is(ErrReadInput, err) {
		t.Error("sentinel matches a longer chain")
	}
}

func TestError_Wrapf(t *testing.T) {
	err := ErrSourceNotFound.Wrapf("%q", "fib.dash")

	if got, want := err.Error(), `source not found: "fib.dash"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrSourceNotFound) {
		t.Error("errors.Is(err, ErrSourceNotFound) = false")
	}
}

func TestMakeError(t *testing.T) {
	if err := MakeError(nil, nil); err != nil {
		t.Errorf("MakeError(nil, nil) = %v, want nil", err)
	}

	a, b := errors.New("a"), errors.New("b")
	err := MakeError(a, b)

	if got := err.Error(); got != "a: b" {
		t.Errorf("Error() = %q, want %q", got, "a: b")
	}

	if got := len(err.Unwrap()); got != 2 {
		t.Errorf("len(Unwrap()) = %d, want 2", got)
	}
}

func TestPaths(t *testing.T) {
	prefix := Prefix()
	if prefix == "" || strings.HasPrefix(prefix, ".") {
		t.Errorf("Prefix() = %q", prefix)
	}

	for name, dir := range map[string]string{
		"ConfigDir": ConfigDir(),
		"CacheDir":  CacheDir(),
	} {
		if filepath.Base(dir) != prefix {
			t.Errorf("%s() = %q, want base %q", name, dir, prefix)
		}
	}
}

func TestEnv(t *testing.T) {
	want := strings.ToUpper(Prefix()) + "_MAX_CALL_DEPTH"
	want = strings.ReplaceAll(strings.ReplaceAll(want, "-", "_"), ".", "_")

	if got := Env("max-call-depth"); got != want {
		t.Errorf("Env() = %q, want %q", got, want)
	}
}

func TestConfigPath(t *testing.T) {
	if got, want := ConfigPath("config.yaml"), filepath.Join(ConfigDir(), "config.yaml"); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}

	if got := CachePath(); got != CacheDir() {
		t.Errorf("CachePath() = %q, want %q", got, CacheDir())
	}
}
