package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "mson"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end in %q", name, dir, Prefix())
		}
	}
}

var errSentinel = NewError("sentinel")

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"self", errSentinel, true},
		{"with", errSentinel.With(slog.String("k", "v")), true},
		{"wrap", errSentinel.Wrap(cause), true},
		{"errorf", errSentinel.Errorf("bad %d", 1), true},
		{"fmt wrapped", fmt.Errorf("outer: %w", errSentinel.Wrap(cause)), true},
		{"other sentinel", NewError("sentinel"), false},
		{"plain", cause, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, errSentinel); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", NewError("msg"), "msg"},
		{"wrapped", NewError("msg").Wrap(errors.New("cause")), "msg: cause"},
		{"cause only", WrapError(errors.New("cause")), "cause"},
		{"formatted", NewError("msg").Errorf("n=%d", 3), "msg: n=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_WithIsImmutable(t *testing.T) {
	base := NewError("msg")
	a := base.With(slog.String("a", "1"))
	b := a.With(slog.String("b", "2"))

	if len(base.Attrs()) != 0 {
		t.Errorf("base attrs modified: %v", base.Attrs())
	}

	if len(a.Attrs()) != 1 || len(b.Attrs()) != 2 {
		t.Errorf("unexpected attrs: a=%v b=%v", a.Attrs(), b.Attrs())
	}

	v := b.LogValue()
	if v.Kind() != slog.KindGroup || len(v.Group()) != 3 {
		t.Errorf("LogValue() = %v", v)
	}
}

func TestWrapError_PreservesError(t *testing.T) {
	orig := errSentinel.With(slog.String("k", "v"))
	wrapped := WrapError(fmt.Errorf("ctx: %w", orig))

	if wrapped != orig {
		t.Errorf("WrapError() did not return the wrapped *Error")
	}
}
