package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.RecordStorage = (*FileStorage)(nil)

const recordExt = ".json"

// FileStorage keeps one file per record under root/<profile>/<key>.json.
//
// A record is written to a temporary file first and renamed into place so
// a reader never sees a partial record.
type FileStorage struct {
	fs   afero.Fs
	root string
}

func NewFileStorage(fsys afero.Fs, root string) FileStorage {
	return FileStorage{fs: fsys, root: root}
}

// NewOSFileStorage stores records on the local disk.
func NewOSFileStorage(root string) FileStorage {
	return NewFileStorage(afero.NewOsFs(), root)
}

func (s FileStorage) Get(ctx context.Context, profile, key string) ([]byte, error) {
	const op = "FileStorage.Get"

	if err := s.check(ctx, profile, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := afero.ReadFile(s.fs, s.recordPath(profile, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s FileStorage) Set(
	ctx context.Context, profile, key string, value []byte,
) error {
	const op = "FileStorage.Set"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Join(s.root, profile)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.writeTemp(tmp, value); err != nil {
		s.removeTemp(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.fs.Rename(tmp.Name(), s.recordPath(profile, key)); err != nil {
		s.removeTemp(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s FileStorage) Delete(ctx context.Context, profile, key string) error {
	const op = "FileStorage.Delete"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.fs.Remove(s.recordPath(profile, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s FileStorage) Ping(ctx context.Context) error {
	const op = "FileStorage.Ping"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.fs.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("%s: storage root unavailable: %w", op, err)
	}
	return nil
}

func (s FileStorage) Close() error {
	return nil
}

func (s FileStorage) recordPath(profile, key string) string {
	return filepath.Join(s.root, profile, key+recordExt)
}

func (s FileStorage) check(ctx context.Context, profile, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return checkRecord(profile, key)
}

func (FileStorage) writeTemp(f afero.File, value []byte) error {
	if _, err := f.Write(value); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s FileStorage) removeTemp(name string) {
	const op = "FileStorage.removeTemp"
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to remove temp record", "op", op, "err", err)
	}
}
