package file

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/utils/logging"
)

// NextAvailablePath returns dir/base+ext, or the first free dir/base_N+ext.
func NextAvailablePath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, base+"_"+strconv.Itoa(n)+ext)
	}
	return path
}

// EnsureDir creates dir if it is missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, consts.PermsGenericDir); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	return nil
}

// MoveFile renames src to dst, copying across filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		logging.W("Failed to remove %q after copy: %v", src, err)
	}
	return nil
}

// CopyFile copies src to dst, replacing dst.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			logging.E("failed to close file %q due to error: %v", src, cerr)
		}
	}()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, consts.PermsMediaFile)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q to %q: %w", src, dst, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
