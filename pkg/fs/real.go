package fs

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Real is the production [FS]. Apart from [Real.WriteFileAtomic] and
// [Real.Exists] every method calls straight into package os.
type Real struct{}

// NewReal returns the production filesystem.
func NewReal() *Real {
	return &Real{}
}

func (*Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

func (*Real) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }
func (*Real) ReadDir(path string) ([]os.DirEntry, error) { return os.ReadDir(path) }
func (*Real) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (*Real) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

// WriteFileAtomic writes data through a temp file in the target directory
// that is renamed over path, then applies perm.
func (*Real) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}

	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %q: %w", path, err)
	}

	return nil
}

// Exists reports whether path exists. A missing path is (false, nil).
func (*Real) Exists(path string) (bool, error) {
	_, err := os.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

var _ FS = (*Real)(nil)
