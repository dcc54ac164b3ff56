package cmd

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestExpandInputs(t *testing.T) {
	mfs := afero.NewMemMapFs()
	for _, p := range []string{"logs/b.rtf", "logs/a.rtf", "other/c.rtf"} {
		_ = afero.WriteFile(mfs, p, []byte("0,1\n"), 0o644)
	}

	got, err := expandInputs(mfs, []string{"logs/*.rtf", "other/c.rtf", "logs/a.rtf", "none/*.rtf"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"logs/a.rtf", "logs/b.rtf", "other/c.rtf"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandInputs_MissingLiteralFails(t *testing.T) {
	mfs := afero.NewMemMapFs()
	_ = afero.WriteFile(mfs, "logs/a.rtf", []byte("0,1\n"), 0o644)

	_, err := expandInputs(mfs, []string{"logs/*.rtf", "logs/typo.rtf"})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error for literal input, got %v", err)
	}
}

func TestExpandInputs_NothingMatched(t *testing.T) {
	if _, err := expandInputs(afero.NewMemMapFs(), []string{"logs/*.rtf"}); err == nil {
		t.Fatalf("expected error when no pattern matched")
	}
}
