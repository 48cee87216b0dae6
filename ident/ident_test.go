package ident

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Identifier
		wantErr error
	}{
		{"namespaced", "mson:steve", Identifier{"mson", "steve"}, nil},
		{"default", "steve", Identifier{DefaultNamespace, "steve"}, nil},
		{"leading separator", ":steve", Identifier{DefaultNamespace, "steve"}, nil},
		{"nested path", "mson:models/a_b-c.d", Identifier{"mson", "models/a_b-c.d"}, nil},
		{"second separator in path", "a:b:c", Identifier{}, ErrInvalidPath},
		{"upper namespace", "Mson:steve", Identifier{}, ErrInvalidNamespace},
		{"slash namespace", "a/b:c", Identifier{}, ErrInvalidNamespace},
		{"space path", "mson:st eve", Identifier{}, ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDefault(t *testing.T) {
	id, err := ParseDefault("compound", "mson")
	if err != nil {
		t.Fatal(err)
	}

	if id.String() != "mson:compound" {
		t.Errorf("ParseDefault() = %v", id)
	}
}

func TestIdentifier_Text(t *testing.T) {
	var id Identifier

	if err := id.UnmarshalText([]byte("a:b")); err != nil {
		t.Fatal(err)
	}

	text, _ := id.MarshalText()
	if string(text) != "a:b" {
		t.Errorf("MarshalText() = %q", text)
	}

	if got := id.WithSuffix("_dynamic").String(); got != "a:b_dynamic" {
		t.Errorf("WithSuffix() = %q", got)
	}

	if !(Identifier{}).IsZero() || id.IsZero() {
		t.Error("IsZero() mismatch")
	}
}
