package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mson/ident"
	"github.com/ardnew/mson/log"
	"github.com/ardnew/mson/model"
	"github.com/ardnew/mson/mson"
	"github.com/ardnew/mson/resource"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type assetsKey struct{}

// fileKey identifies a directory by device and inode, so a root reached
// through a symlink or a relative path is searched once.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithAssets returns a new context.Context holding the asset roots dirs,
// without duplicates and without entries that are not directories.
func WithAssets(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, assetsKey{}, uniqueDirs(dirs))
}

func assetsFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(assetsKey{}).([]string)

	return dirs
}

func uniqueDirs(dirs []string) []string {
	seen := make(map[fileKey]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))

	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}

		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() {
			continue
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, resolved)
	}

	return out
}

func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// session resolves one model from the asset roots of a command. Each build
// uses a new foundry, so files changed on disk are read again.
type session struct {
	id     ident.Identifier
	assets *resource.Manager
	logger log.Logger
}

func newSession(ctx context.Context, name string) (*session, error) {
	id, err := ident.Parse(name)
	if err != nil {
		return nil, ErrModelID.With(slog.String("model", name)).Wrap(err)
	}

	logger := log.Default().With(slog.String("model", id.String()))
	dirs := assetsFrom(ctx)

	logger.DebugContext(ctx, "asset roots", slog.Any("dirs", dirs))

	return &session{
		id:     id,
		assets: resource.New(dirs, resource.WithLogger(logger)),
		logger: logger,
	}, nil
}

func (s *session) foundry() *mson.Foundry {
	return mson.NewFoundry(s.assets,
		mson.WithLogger(s.logger),
		mson.WithLimit(runtime.GOMAXPROCS(0)),
	)
}

// load builds the model. The foundry is returned even when the build fails,
// holding the files that were read.
func (s *session) load(ctx context.Context) (*mson.Foundry, *model.Part, error) {
	f := s.foundry()

	root, err := f.Build(ctx, s.id)
	if err != nil {
		return f, nil, ErrBuild.With(slog.String("model", s.id.String())).Wrap(err)
	}

	return f, root, nil
}

// Build implements [repl.Loader].
func (s *session) Build(ctx context.Context) (*model.Part, error) {
	_, root, err := s.load(ctx)

	return root, err
}

// Path implements [repl.Loader].
func (s *session) Path() (string, error) { return s.assets.Path(s.id) }

// file loads the description file of the model and the files it inherits
// from, without building it.
func (s *session) file(ctx context.Context) (*mson.File, error) {
	file, err := s.foundry().Load(ctx, s.id)
	if err != nil {
		return nil, ErrBuild.With(slog.String("model", s.id.String())).Wrap(err)
	}

	return file, nil
}
