package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/radioscope-cli/internal/extract"
	"github.com/KaramelBytes/radioscope-cli/internal/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const extractPrefix = "radio_data_extracted"

var (
	exOutDir string
	exQuiet  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Copy CSV data rows from raw captures into timestamped files",
	Long: `extract keeps only the lines of a raw capture that start with digits followed by a comma
and writes them, unchanged, to radio_data_extracted_<YYYYMMDD_HHMMSS>.csv.
Arguments may be glob patterns. With no arguments ` + extract.DefaultInput + ` is read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{extract.DefaultInput}
		}
		files, err := expandInputs(appFs, args)
		if err != nil {
			return err
		}
		outDir := exOutDir
		if outDir == "" {
			outDir = "."
		}
		if err := utils.EnsureDir(appFs, outDir); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		now := time.Now()
		total := len(files)
		for i, path := range files {
			if !exQuiet && total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			want := filepath.Join(outDir, utils.TimestampedName(extractPrefix, now, "csv"))
			dst, err := utils.UniquePath(appFs, want)
			if err != nil {
				return err
			}
			if dst != want && !exQuiet {
				fmt.Fprintf(out, "⚠ Detected existing output, writing to %s to avoid overwrite.\n", filepath.Base(dst))
			}
			res, err := extract.File(appFs, path, dst)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}
			logger.Debug("extracted", zap.String("input", path), zap.String("output", dst),
				zap.Int("lines", res.Lines), zap.Int("kept", res.Kept))
			if !exQuiet {
				fmt.Fprintf(out, "✓ Extracted %d of %d lines from %s to %s\n", res.Kept, res.Lines, path, dst)
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and returns the sorted, de-duplicated
// list. A literal path that cannot be stat'ed is an error; a pattern that
// matches nothing is skipped.
func expandInputs(fs afero.Fs, args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		if !hasGlobMeta(arg) {
			if _, err := fs.Stat(arg); err != nil {
				return nil, fmt.Errorf("input %s: %w", arg, err)
			}
		}
		matches, err := afero.Glob(fs, arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched %v", args)
	}
	sort.Strings(files)
	return files, nil
}

func hasGlobMeta(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&exOutDir, "out-dir", "o", "", "directory for extracted files (default: current directory)")
	extractCmd.Flags().BoolVar(&exQuiet, "quiet", false, "suppress progress and non-essential output")
}
