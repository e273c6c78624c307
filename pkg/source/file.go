package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileSource reads toggle definitions from a YAML or JSON document on disk
// and pushes them to a handler. The format is picked by file extension at
// construction time.
type FileSource struct {
	path    string
	format  string
	handler Handler
	log     *slog.Logger
}

// FileOption is a functional option for configuring a FileSource.
type FileOption func(*FileSource)

// WithFileLogger sets the logger for the file source.
func WithFileLogger(log *slog.Logger) FileOption {
	return func(f *FileSource) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFileSource creates a file source for the document at path. The path must
// end in .yaml, .yml, or .json.
func NewFileSource(path string, handler Handler, opts ...FileOption) (*FileSource, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	f := &FileSource{
		path:    path,
		format:  format,
		handler: handler,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Sync reads the document once and pushes the parsed definitions to the
// handler. Read, parse, and handler failures are returned; nothing is pushed
// unless the whole document parses.
func (f *FileSource) Sync(ctx context.Context) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return errors.Join(ErrReadDocument, err)
	}

	defs, err := ParseDocument(data, f.format)
	if err != nil {
		return err
	}

	if err := f.handler.OnToggleDefinitionsUpdated(ctx, defs); err != nil {
		return err
	}

	f.log.InfoContext(ctx, "toggle definitions loaded",
		slog.String("path", f.path),
		slog.Int("toggles", len(defs)))
	return nil
}

// Watch pushes the document once, then re-syncs on every change until ctx is
// cancelled. A malformed or unreadable update is logged and skipped; the
// handler keeps serving its last good definitions. Returns ctx.Err() after
// cancellation.
func (f *FileSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors and config mounts
	// replace the file on update, and a watch on the old inode goes quiet
	// after the swap.
	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if err := f.Sync(ctx); err != nil {
		f.log.ErrorContext(ctx, "initial toggle document load failed",
			slog.String("path", f.path),
			slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !f.relevant(event) {
				continue
			}

			f.log.DebugContext(ctx, "toggle document changed",
				slog.String("path", f.path),
				slog.String("op", event.Op.String()))

			if err := f.Sync(ctx); err != nil {
				f.log.ErrorContext(ctx, "toggle document update rejected",
					slog.String("path", f.path),
					slog.String("error", err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.ErrorContext(ctx, "file watcher error",
				slog.String("path", f.path),
				slog.String("error", err.Error()))
		}
	}
}

// relevant reports whether a directory event concerns the watched document.
func (f *FileSource) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(f.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}
