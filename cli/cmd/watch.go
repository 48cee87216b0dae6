package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/mson/model"
	"github.com/ardnew/mson/mson"
)

// settle is how long file events are collected before rebuilding, so an
// editor's write-rename sequence causes one build.
const settle = 100 * time.Millisecond

// watch rebuilds the model whenever one of the files read by the last build
// changes, passing each tree that builds to rebuilt. Failed builds are
// logged and the previous files stay watched. It returns when ctx is done
// or rebuilt fails.
func (s *session) watch(
	ctx context.Context,
	f *mson.Foundry,
	rebuilt func(*model.Part) error,
) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	files := s.track(ctx, w, f)

	var timer <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if files[filepath.Clean(ev.Name)] && ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.logger.TraceContext(ctx, "model file changed",
					slog.String("file", ev.Name), slog.String("op", ev.Op.String()))

				timer = time.After(settle)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			s.logger.WarnContext(ctx, "watch error", slog.Any("error", err))

		case <-timer:
			timer = nil

			f, root, err := s.load(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "rebuild failed", slog.Any("error", err))

				continue
			}

			files = s.track(ctx, w, f)

			s.logger.InfoContext(ctx, "model rebuilt", slog.Int("files", len(files)))

			if err := rebuilt(root); err != nil {
				return err
			}
		}
	}
}

// track watches the directories of the model file and every file f loaded
// from disk, and returns the set of those files. Directories no longer
// needed are released.
func (s *session) track(ctx context.Context, w *fsnotify.Watcher, f *mson.Foundry) map[string]bool {
	files := map[string]bool{}
	dirs := map[string]bool{}

	for _, id := range append(f.Loaded(), s.id) {
		path, err := s.assets.Path(id)
		if err != nil {
			continue
		}

		files[filepath.Clean(path)] = true
		dirs[filepath.Dir(path)] = true
	}

	watching := map[string]bool{}
	for _, dir := range w.WatchList() {
		watching[dir] = true
	}

	for dir := range dirs {
		if watching[dir] {
			continue
		}

		if err := w.Add(dir); err != nil {
			s.logger.WarnContext(ctx, "cannot watch directory",
				slog.String("dir", dir), slog.Any("error", err))
		}
	}

	for dir := range watching {
		if !dirs[dir] {
			_ = w.Remove(dir)
		}
	}

	s.logger.DebugContext(ctx, "watching model files",
		slog.Int("files", len(files)), slog.Int("dirs", len(dirs)))

	return files
}
