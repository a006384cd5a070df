package publishers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/amink7/assets-manager/internal/assets"
)

type local struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// NewLocal creates a publisher that writes each asset to a new file under dir.
// The location it reports is the file:// URI of the file.
func NewLocal(fs afero.Fs, dir string, logger *slog.Logger) (assets.Publisher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve publish directory: %w", err)
	}

	return &local{
		fs:     fs,
		dir:    abs,
		logger: logger.With("publisher", "local"),
	}, nil
}

func (l *local) Publish(ctx context.Context, data []byte, filename, contentType string) (*assets.Published, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create publish directory: %w", err)
	}

	path := filepath.Join(l.dir, objectName(filename))
	f, err := l.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	n, err := f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := l.fs.Remove(path); rerr != nil {
			l.logger.Warn("remove partial file failed", "path", path, "error", rerr)
		}
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	location := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	l.logger.Debug("asset written", "path", path, "size", n, "content_type", contentType)

	return &assets.Published{Location: location, Size: int64(n)}, nil
}
