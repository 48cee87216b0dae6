package resource

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/mson/ident"
)

func TestManager_Fetch(t *testing.T) {
	fsys := fstest.MapFS{
		"mson/models/steve.json":     {Data: []byte(`{"data": {"head": {}}}`)},
		"mson/models/alex.yaml":      {Data: []byte("data:\n  body: {}\n  arm: {}\n")},
		"mson/models/broken.json":    {Data: []byte(`{"data": `)},
		"minecraft/models/pig.yml":   {Data: []byte("parent: mson:steve\n")},
		"minecraft/models/pig.json":  {Data: []byte(`{"parent": "mson:alex"}`)},
		"mson/textures/skin/pig.png": {Data: []byte("not a png")},
	}

	m := New(nil, WithFS(fsys))

	tests := []struct {
		id      string
		member  string
		want    []string
		wantErr error
	}{
		{id: "mson:steve", member: "data", want: []string{"head"}},
		{id: "mson:alex", member: "data", want: []string{"body", "arm"}},
		{id: "pig", member: "parent"},
		{id: "mson:missing", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			v, err := m.Fetch(context.Background(), ident.MustParse(tt.id))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			obj, ok := v.AsObject()
			require.True(t, ok)

			member, ok := obj.Member(tt.member)
			require.True(t, ok)

			if tt.want != nil {
				data, ok := member.AsObject()
				require.True(t, ok)
				assert.Equal(t, tt.want, data.Keys())
			}
		})
	}

	t.Run("json first", func(t *testing.T) {
		v, err := m.Fetch(context.Background(), ident.MustParse("minecraft:pig"))
		require.NoError(t, err)

		obj, _ := v.AsObject()
		parent, _ := obj.Member("parent")
		s, _ := parent.AsString()
		assert.Equal(t, "mson:alex", s)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := m.Fetch(context.Background(), ident.MustParse("mson:broken"))
		assert.Error(t, err)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Fetch(ctx, ident.MustParse("mson:steve"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestManager_RootOrder(t *testing.T) {
	first := fstest.MapFS{"mson/models/a.json": {Data: []byte(`{"texture": {"w": 1}}`)}}
	second := fstest.MapFS{
		"mson/models/a.json": {Data: []byte(`{"texture": {"w": 2}}`)},
		"mson/models/b.json": {Data: []byte(`{}`)},
	}

	m := New(nil, WithFS(first), WithFS(second))

	v, err := m.Fetch(context.Background(), ident.MustParse("mson:a"))
	require.NoError(t, err)
	assert.Equal(t, `{"texture":{"w":1}}`, v.String())

	_, err = m.Fetch(context.Background(), ident.MustParse("mson:b"))
	assert.NoError(t, err)
}

func TestManager_Image(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	fsys := fstest.MapFS{
		"mson/textures/skin/steve.png": {Data: buf.Bytes()},
		"mson/textures/skin/bad.png":   {Data: []byte("nope")},
	}

	m := New(nil, WithFS(fsys))

	img, err := m.Image(context.Background(), ident.MustParse("mson:steve"), "skin")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())

	r, _, _, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	_, err = m.Image(context.Background(), ident.MustParse("mson:bad"), "skin")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Image(context.Background(), ident.MustParse("mson:steve"), "armor")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_Path(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "mson", "models")
	require.NoError(t, os.MkdirAll(models, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(models, "steve.yaml"), []byte("data: {}\n"), 0o644))

	m := New([]string{dir}, WithFS(fstest.MapFS{"mson/models/alex.json": {Data: []byte(`{}`)}}))

	got, err := m.Path(ident.MustParse("mson:steve"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(models, "steve.yaml"), got)

	_, err = m.Path(ident.MustParse("mson:alex"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNames(t *testing.T) {
	id := ident.MustParse("mson:mobs/pig")

	assert.Equal(t, "mson/models/mobs/pig", ModelName(id))
	assert.Equal(t, "mson/textures/skin/mobs/pig.png", TextureName(id, "skin"))
}

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()

	assert.Contains(t, SearchPath("", dir), dir)
}
