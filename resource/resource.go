// Package resource locates model description files and texture images in a
// list of asset roots.
//
// Each root is laid out by namespace:
//
//	{root}/{namespace}/models/{path}.json
//	{root}/{namespace}/models/{path}.yaml
//	{root}/{namespace}/textures/{kind}/{path}.png
//
// Roots are searched in order; the first match wins.
package resource

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/mson/elem"
	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/pkg"
)

const (
	ModelsDir   = "models"
	TexturesDir = "textures"

	// EnvPath lists additional asset roots, separated like PATH.
	EnvPath = "MSON_PATH"
)

// ErrNotFound is returned when no root holds a resource.
var ErrNotFound = pkg.NewError("resource not found")

// Extensions are the description file formats, in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Root is one searched tree of assets.
type Root struct {
	// Dir is the directory FS was opened from, or "" for other file systems.
	Dir string
	FS  fs.FS
}

// Manager reads resources from its roots.
type Manager struct {
	roots  []Root
	logger log.Logger
}

// Option configures a [Manager].
type Option func(*Manager)

// WithLogger sets the logger of lookups.
func WithLogger(l log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithFS adds a root that is not a directory on disk.
func WithFS(fsys fs.FS) Option {
	return func(m *Manager) { m.roots = append(m.roots, Root{FS: fsys}) }
}

// New returns a manager searching dirs, then any roots added by options.
func New(dirs []string, opts ...Option) *Manager {
	m := &Manager{}

	for _, dir := range dirs {
		m.roots = append(m.roots, Root{Dir: dir, FS: os.DirFS(dir)})
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SearchPath returns the directories of roots followed by those listed in
// env, dropping any that are not directories.
func SearchPath(env string, roots ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(roots...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(name string) bool {
	info, err := os.Stat(name)

	return err == nil && info.IsDir()
}

// Roots returns the searched roots in order.
func (m *Manager) Roots() []Root { return append([]Root(nil), m.roots...) }

// ModelName returns the name of the description file of id, without
// extension.
func ModelName(id ident.Identifier) string {
	return path.Join(id.Namespace, ModelsDir, id.Path)
}

// TextureName returns the name of the texture image of id.
func TextureName(id ident.Identifier, kind string) string {
	return path.Join(id.Namespace, TexturesDir, kind, id.Path+".png")
}

// Locate returns the root and name of the description file of id.
func (m *Manager) Locate(id ident.Identifier) (Root, string, error) {
	base := ModelName(id)

	for _, root := range m.roots {
		for _, ext := range Extensions {
			name := base + ext

			if _, err := fs.Stat(root.FS, name); err == nil {
				return root, name, nil
			}
		}
	}

	return Root{}, "", ErrNotFound.
		With(slog.String("id", id.String())).
		Errorf("no model file for %s", id)
}

// Path returns the path on disk of the description file of id, when it
// lives in a directory root.
func (m *Manager) Path(id ident.Identifier) (string, error) {
	root, name, err := m.Locate(id)
	if err != nil {
		return "", err
	}

	if root.Dir == "" {
		return "", ErrNotFound.
			With(slog.String("id", id.String())).
			Errorf("model file for %s is not on disk", id)
	}

	return filepath.Join(root.Dir, filepath.FromSlash(name)), nil
}

// Fetch reads and decodes the description file of id.
func (m *Manager) Fetch(ctx context.Context, id ident.Identifier) (elem.Value, error) {
	if err := ctx.Err(); err != nil {
		return elem.Null(), err
	}

	root, name, err := m.Locate(id)
	if err != nil {
		return elem.Null(), err
	}

	data, err := fs.ReadFile(root.FS, name)
	if err != nil {
		return elem.Null(), ErrNotFound.With(slog.String("id", id.String())).Wrap(err)
	}

	m.logger.TraceContext(ctx, "read model file",
		slog.String("id", id.String()), slog.String("name", name), slog.Int("bytes", len(data)))

	if path.Ext(name) == ".json" {
		return elem.Unmarshal(data)
	}

	return elem.UnmarshalYAML(data)
}

// Image reads the texture of id from the textures/kind directory.
func (m *Manager) Image(ctx context.Context, id ident.Identifier, kind string) (image.Image, error) {
	name := TextureName(id, kind)

	for _, root := range m.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := root.FS.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, err
		}

		img, err := png.Decode(f)
		_ = f.Close()

		if err != nil {
			return nil, ErrNotFound.With(slog.String("id", id.String())).Wrap(err)
		}

		m.logger.TraceContext(ctx, "read texture",
			slog.String("id", id.String()), slog.String("name", name))

		return img, nil
	}

	return nil, ErrNotFound.
		With(slog.String("id", id.String()), slog.String("kind", kind)).
		Errorf("no texture for %s", id)
}
