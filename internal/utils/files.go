package utils

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// TimestampLayout is embedded in generated output names.
const TimestampLayout = "20060102_150405"

// EnsureDir ensures the provided directory exists.
func EnsureDir(fs afero.Fs, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(fs afero.Fs, path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// WriteWith buffers the output of render and stores it with SafeWriteFile,
// so a failed render never leaves a partial file behind.
func WriteWith(fs afero.Fs, path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return SafeWriteFile(fs, path, buf.Bytes())
}

// TimestampedName returns prefix_<YYYYMMDD_HHMMSS>.ext.
func TimestampedName(prefix string, ts time.Time, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return fmt.Sprintf("%s_%s.%s", prefix, ts.Format(TimestampLayout), ext)
}

// UniquePath returns path if nothing exists there, otherwise the first free
// name of the form base__N.ext starting at N=2.
func UniquePath(fs afero.Fs, path string) (string, error) {
	suffix, err := UniqueSuffix(fs, path)
	if err != nil {
		return "", err
	}
	return WithSuffix(path, suffix), nil
}

// UniqueSuffix picks one collision suffix shared by a group of outputs: ""
// when none of paths exist, otherwise the first "__N" (N>=2) for which every
// suffixed path is free.
func UniqueSuffix(fs afero.Fs, paths ...string) (string, error) {
	free := func(suffix string) (bool, error) {
		for _, p := range paths {
			exists, err := afero.Exists(fs, WithSuffix(p, suffix))
			if err != nil {
				return false, err
			}
			if exists {
				return false, nil
			}
		}
		return true, nil
	}
	ok, err := free("")
	if err != nil || ok {
		return "", err
	}
	for idx := 2; ; idx++ {
		suffix := fmt.Sprintf("__%d", idx)
		ok, err := free(suffix)
		if err != nil {
			return "", err
		}
		if ok {
			return suffix, nil
		}
	}
}

// WithSuffix inserts suffix between the stem and extension of path.
func WithSuffix(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
