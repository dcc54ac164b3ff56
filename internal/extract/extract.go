package extract

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// DefaultInput is the raw capture file name the logger produces.
const DefaultInput = "rad.txt.rtf"

// dataRow matches lines that start with digits immediately followed by a comma.
var dataRow = regexp.MustCompile(`^\d+,`)

// Result counts the lines seen and kept by a Filter run.
type Result struct {
	Lines int
	Kept  int
}

// IsDataRow reports whether line looks like a CSV data row. Surrounding
// whitespace is ignored for the test.
func IsDataRow(line string) bool {
	return dataRow.MatchString(strings.TrimSpace(line))
}

// Filter copies the data rows of r to w verbatim and in order, including
// each line's own terminator.
func Filter(r io.Reader, w io.Writer) (Result, error) {
	var res Result
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			res.Lines++
			if IsDataRow(line) {
				if _, werr := bw.WriteString(line); werr != nil {
					return res, fmt.Errorf("write line %d: %w", res.Lines, werr)
				}
				res.Kept++
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("read line %d: %w", res.Lines+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return res, fmt.Errorf("flush: %w", err)
	}
	return res, nil
}

// File runs Filter from in to a newly created out on fs.
func File(fs afero.Fs, in, out string) (Result, error) {
	src, err := fs.Open(in)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer src.Close()
	dst, err := fs.Create(out)
	if err != nil {
		return Result{}, fmt.Errorf("create output: %w", err)
	}
	res, err := Filter(src, dst)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return res, err
}
