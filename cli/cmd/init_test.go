package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initCLI struct {
	Verbose bool     `help:"Enable verbose output"`
	Name    string   `help:"Name"`
	Count   int      `help:"Number of items"`
	Tags    []string `help:"Tags"`
	Secret  string   `help:"Hidden" hidden:""`
	PprofX  string   `help:"Profiling" name:"pprof-mode"`
}

func parseInit(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	require.NoError(t, err)

	ktx, err := parser.Parse(args)
	require.NoError(t, err)

	return WithContext(context.Background(), ktx)
}

func TestInit_Run(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, existing: true},
		{name: "fail_without_force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				require.NoError(t, os.WriteFile(confPath, []byte("existing content"), 0o644))
			}

			ctx := parseInit(t, confPath, "--verbose", "--name=steve")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrWriteConfig)

				data, err := os.ReadFile(confPath)
				require.NoError(t, err)
				assert.Equal(t, "existing content", string(data))

				return
			}

			require.NoError(t, err)

			data, err := os.ReadFile(confPath)
			require.NoError(t, err)

			var doc map[string]map[string]any
			require.NoError(t, yaml.Unmarshal(data, &doc))

			assert.Equal(t, true, doc[ConfigIdentifier]["verbose"])
			assert.Equal(t, "steve", doc[ConfigIdentifier]["name"])
		})
	}
}

func TestFlagValues(t *testing.T) {
	ctx := parseInit(t, "unused", "--count=5", "--tags=a,b", "--secret=s", "--pprof-mode=cpu")

	got := flagValues(kongContextFrom(ctx))

	want := yaml.MapSlice{
		{Key: "verbose", Value: false},
		{Key: "count", Value: 5},
		{Key: "tags", Value: []string{"a", "b"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flagValues() mismatch (-want +got):\n%s", diff)
	}
}

type stringer struct{}

func (stringer) String() string { return "text" }

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty_string", "", nil},
		{"string", "x", "x"},
		{"empty_list", []string{}, nil},
		{"list", []string{"a"}, []string{"a"}},
		{"bool", false, false},
		{"int", 3, 3},
		{"float", 0.5, 0.5},
		{"stringer", stringer{}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configValue(tt.in))
		})
	}
}
