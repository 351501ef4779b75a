package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("invalid file reference")

// Local keeps uploads flat in one directory under generated names. The
// returned reference is the bare file name.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Save(ctx context.Context, suggestedName string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(suggestedName)))
	ref := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(l.dir, ref), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return ref, nil
}

// Remove deletes a stored file. Unknown references are not an error.
func (l *Local) Remove(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return ErrInvalidRef
	}
	err := os.Remove(filepath.Join(l.dir, ref))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Open returns a reader for a stored file.
func (l *Local) Open(ref string) (*os.File, error) {
	if ref == "" || ref != filepath.Base(ref) || ref == "." || ref == ".." {
		return nil, ErrInvalidRef
	}
	return os.Open(filepath.Join(l.dir, ref))
}
