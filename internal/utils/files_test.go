package utils

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestTimestampedName(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	cases := map[string]string{
		"csv":  "radio_data_extracted_20240203_040506.csv",
		".csv": "radio_data_extracted_20240203_040506.csv",
	}
	for ext, want := range cases {
		if got := TimestampedName("radio_data_extracted", ts, ext); got != want {
			t.Errorf("ext %q: got %q, want %q", ext, got, want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	got, err := UniquePath(fs, "out/report.txt")
	if err != nil || got != "out/report.txt" {
		t.Fatalf("free path: %q, %v", got, err)
	}
	_ = afero.WriteFile(fs, "out/report.txt", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "out/report__2.txt", []byte("b"), 0o644)
	got, err = UniquePath(fs, "out/report.txt")
	if err != nil || got != "out/report__3.txt" {
		t.Fatalf("taken path: %q, %v", got, err)
	}
}

func TestUniqueSuffix_SharedAcrossGroup(t *testing.T) {
	fs := afero.NewMemMapFs()
	group := []string{"out/chart_1.png", "out/report_1.txt", "out/report_1.pdf"}
	got, err := UniqueSuffix(fs, group...)
	if err != nil || got != "" {
		t.Fatalf("free group: %q, %v", got, err)
	}
	// only the reports from an earlier run exist
	_ = afero.WriteFile(fs, "out/report_1.txt", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "out/report_1.pdf", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "out/chart_1__2.svg", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "out/report_1__2.txt", []byte("a"), 0o644)
	got, err = UniqueSuffix(fs, group...)
	if err != nil || got != "__3" {
		t.Fatalf("taken group: %q, %v", got, err)
	}
	if p := WithSuffix("out/chart_1.png", got); p != "out/chart_1__3.png" {
		t.Fatalf("WithSuffix = %q", p)
	}
	if p := WithSuffix("out/chart_1.png", ""); p != "out/chart_1.png" {
		t.Fatalf("empty suffix changed path: %q", p)
	}
}

func TestSafeWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := EnsureDir(fs, "reports"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := SafeWriteFile(fs, "reports/a.txt", []byte("hello")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := afero.ReadFile(fs, "reports/a.txt")
	if err != nil || string(b) != "hello" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if ok, _ := afero.Exists(fs, "reports/a.txt.tmp"); ok {
		t.Fatalf("temp file left behind")
	}
}

func TestWriteWith_FailedRenderLeavesNothing(t *testing.T) {
	fs := afero.NewMemMapFs()
	boom := errors.New("boom")
	err := WriteWith(fs, "chart.pdf", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if ok, _ := afero.Exists(fs, "chart.pdf"); ok {
		t.Fatalf("partial file written")
	}

	if err := WriteWith(fs, "chart.pdf", func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader([]byte("%PDF")))
		return err
	}); err != nil {
		t.Fatalf("WriteWith: %v", err)
	}
	if b, _ := afero.ReadFile(fs, "chart.pdf"); string(b) != "%PDF" {
		t.Fatalf("content = %q", b)
	}
}
