package dataset

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// DefaultPattern matches the cleaned logger output files.
const DefaultPattern = "radio_data_clean_*.csv"

// Candidate is a data file found by a Resolver.
type Candidate struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Resolver locates data files on a filesystem. Tests use afero.NewMemMapFs.
type Resolver struct {
	Fs afero.Fs
}

// Candidates returns files in dir matching pattern, newest first. Files with
// equal modification times are ordered by name, descending, so that
// timestamped names still sort newest first.
func (r Resolver) Candidates(dir, pattern string) ([]Candidate, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if dir == "" {
		dir = "."
	}
	matches, err := afero.Glob(r.Fs, filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	out := make([]Candidate, 0, len(matches))
	for _, m := range matches {
		info, err := r.Fs.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", m, err)
		}
		if info.IsDir() {
			continue
		}
		out = append(out, Candidate{Path: m, ModTime: info.ModTime(), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].Path > out[j].Path
		}
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// Latest returns the newest file in dir matching pattern.
func (r Resolver) Latest(dir, pattern string) (string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	cands, err := r.Candidates(dir, pattern)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", &MissingInputError{Dir: dir, Pattern: pattern}
	}
	return cands[0].Path, nil
}
