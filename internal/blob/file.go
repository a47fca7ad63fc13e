package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Extension is appended to every blob name to form its file name.
const Extension = ".bin"

// File permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// FileChannel stores one file per blob in a directory of an afero.Fs.
type FileChannel struct {
	fs  afero.Fs
	dir string
}

// NewFileChannel creates dir in fsys if needed and returns a channel over it.
func NewFileChannel(fsys afero.Fs, dir string) (*FileChannel, error) {
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create channel directory %s: %w", dir, err)
	}
	return &FileChannel{fs: fsys, dir: dir}, nil
}

// NewDirChannel returns a channel over a directory of the OS filesystem.
func NewDirChannel(dir string) (*FileChannel, error) {
	return NewFileChannel(afero.NewOsFs(), dir)
}

// NewMemChannel returns a channel held in memory.
func NewMemChannel() *FileChannel {
	return &FileChannel{fs: afero.NewMemMapFs(), dir: "/"}
}

// Dir returns the channel's directory.
func (c *FileChannel) Dir() string { return c.dir }

func (c *FileChannel) path(name string) string {
	return filepath.Join(c.dir, name+Extension)
}

// Put writes the blob atomically: a temporary file is written, synced
// and renamed over the target.
func (c *FileChannel) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := c.atomicWrite(c.path(name), data); err != nil {
		return fmt.Errorf("failed to put blob %s: %w", name, err)
	}
	return nil
}

func (c *FileChannel) atomicWrite(path string, data []byte) error {
	f, err := afero.TempFile(c.fs, c.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := c.fs.Chmod(tmpPath, filePerm); err != nil {
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := c.fs.Rename(tmpPath, path); err != nil {
		_ = c.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Get reads up to maxLen bytes of the blob.
func (c *FileChannel) Get(ctx context.Context, name string, maxLen int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	f, err := c.fs.Open(c.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open blob %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	if maxLen < 0 {
		maxLen = 0
	}
	data, err := io.ReadAll(io.LimitReader(f, int64(maxLen)))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}
	return data, nil
}

// Remove deletes the blob's file.
func (c *FileChannel) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := c.fs.Remove(c.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob %s: %w", name, err)
	}
	return nil
}
