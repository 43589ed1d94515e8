package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avezina/fraudlens/internal/model"
)

// Analyzer runs a full analysis of one dataset file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Report, error)
}

// AnalysisJob clusters and analyzes a single dataset
type AnalysisJob struct {
	Path     string
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &AnalysisResult{Path: j.Path, Report: report, Error: err}
}

// AnalysisResult is the outcome of one dataset analysis
type AnalysisResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// Err returns the analysis error, if any
func (r *AnalysisResult) Err() error { return r.Error }

// BatchProcessor analyzes multiple datasets concurrently. A failing
// dataset produces an error result without aborting the rest.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// ProcessPaths analyzes the given dataset files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*AnalysisResult {
	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &AnalysisJob{Path: path, Analyzer: b.analyzer}
	}

	results := NewPool(b.concurrency).Run(ctx, jobs)

	out := make([]*AnalysisResult, len(results))
	for i, r := range results {
		out[i] = r.(*AnalysisResult)
	}
	return out
}

// Process resolves the input (a directory of CSVs or a list file) to
// dataset paths and analyzes them.
func (b *BatchProcessor) Process(ctx context.Context, input string) ([]*AnalysisResult, error) {
	paths, err := ResolveInput(input)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ResolveInput expands a batch input into dataset paths. Directories
// contribute their *.csv files (sorted); any other file is read as a list
// of paths, one per line, with blank lines and # comments skipped.
func ResolveInput(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(input, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("glob datasets: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no *.csv files in %s", input)
		}
		sort.Strings(matches)
		return matches, nil
	}

	return readPathList(input)
}

func readPathList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no dataset paths in %s", path)
	}

	return paths, nil
}
