// Package ident defines namespaced resource identifiers of the form
// "namespace:path".
package ident

import (
	"log/slog"
	"strings"

	"github.com/ardnew/mson/pkg"
)

// DefaultNamespace is assumed when an identifier has no namespace.
const DefaultNamespace = "minecraft"

// Separator splits the namespace from the path.
const Separator = ':'

// Sentinel errors.
var (
	ErrInvalidNamespace = pkg.NewError("non [a-z0-9_.-] character in namespace of location")
	ErrInvalidPath      = pkg.NewError("non [a-z0-9/._-] character in path of location")
)

// Identifier names a resource. The zero value is not a valid identifier.
type Identifier struct {
	Namespace string
	Path      string
}

// New validates and returns the identifier ns:path.
func New(ns, path string) (Identifier, error) {
	id := Identifier{Namespace: ns, Path: path}

	if !validNamespace(ns) {
		return Identifier{}, ErrInvalidNamespace.With(slog.String("location", id.String()))
	}

	if !validPath(path) {
		return Identifier{}, ErrInvalidPath.With(slog.String("location", id.String()))
	}

	return id, nil
}

// Parse splits s at the first separator. Without a namespace, the
// [DefaultNamespace] is used.
func Parse(s string) (Identifier, error) {
	return ParseDefault(s, DefaultNamespace)
}

// ParseDefault is like [Parse] but uses ns when s has no namespace.
func ParseDefault(s, ns string) (Identifier, error) {
	path := s

	if i := strings.IndexByte(s, Separator); i >= 0 {
		path = s[i+1:]
		if i > 0 {
			ns = s[:i]
		}
	}

	return New(ns, path)
}

// MustParse is like [Parse] but panics on error.
func MustParse(s string) Identifier {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return id
}

// String returns "namespace:path".
func (id Identifier) String() string {
	return id.Namespace + string(Separator) + id.Path
}

// IsZero reports whether id is the zero value.
func (id Identifier) IsZero() bool {
	return id.Namespace == "" && id.Path == ""
}

// WithSuffix returns id with suffix appended to its path.
func (id Identifier) WithSuffix(suffix string) Identifier {
	return Identifier{Namespace: id.Namespace, Path: id.Path + suffix}
}

// LogValue implements slog.LogValuer.
func (id Identifier) LogValue() slog.Value {
	return slog.StringValue(id.String())
}

// MarshalText implements encoding.TextMarshaler.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

func validNamespace(s string) bool {
	for i := range len(s) {
		if c := s[i]; !isLowerAlnum(c) && c != '_' && c != '.' && c != '-' {
			return false
		}
	}

	return true
}

func validPath(s string) bool {
	for i := range len(s) {
		if c := s[i]; !isLowerAlnum(c) && c != '/' && c != '_' && c != '.' && c != '-' {
			return false
		}
	}

	return true
}

func isLowerAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
