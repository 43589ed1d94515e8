package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avezina/fraudlens/internal/model"
)

type fakeAnalyzer struct {
	failOn string
}

func (f *fakeAnalyzer) AnalyzeFile(_ context.Context, path string) (*model.Report, error) {
	if path == f.failOn {
		return nil, errors.New("bad dataset")
	}
	return &model.Report{Dataset: model.DatasetMeta{Path: path}}, nil
}

func TestResolveInput_Directory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := ResolveInput(dir)
	if err != nil {
		t.Fatalf("ResolveInput failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 csv paths, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "a.csv" || filepath.Base(paths[1]) != "b.csv" {
		t.Errorf("expected sorted csv paths, got %v", paths)
	}
}

func TestResolveInput_ListFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "datasets.txt")
	content := "# comment\n\n/data/one.csv\n/data/two.csv\n/data/one.csv\n"
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := ResolveInput(list)
	if err != nil {
		t.Fatalf("ResolveInput failed: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("expected deduplicated 2 paths, got %v", paths)
	}
}

func TestResolveInput_Errors(t *testing.T) {
	if _, err := ResolveInput("/does/not/exist"); err == nil {
		t.Error("expected error for missing input")
	}

	dir := t.TempDir()
	if _, err := ResolveInput(dir); err == nil {
		t.Error("expected error for directory without csv files")
	}

	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("# only comments\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveInput(empty); err == nil {
		t.Error("expected error for list file without paths")
	}
}

func TestBatchProcessor_FailureDoesNotAbortBatch(t *testing.T) {
	analyzer := &fakeAnalyzer{failOn: "two.csv"}
	b := NewBatchProcessor(analyzer, 3)

	results := b.ProcessPaths(context.Background(), []string{"one.csv", "two.csv", "three.csv"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	var ok, failed int
	for _, r := range results {
		if r.Err() != nil {
			failed++
			if r.Path != "two.csv" {
				t.Errorf("wrong dataset failed: %s", r.Path)
			}
		} else {
			ok++
			if r.Report == nil {
				t.Errorf("successful result for %s missing report", r.Path)
			}
		}
	}
	if ok != 2 || failed != 1 {
		t.Errorf("expected 2 successes and 1 failure, got %d/%d", ok, failed)
	}
}
