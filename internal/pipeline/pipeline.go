package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/avezina/fraudlens/internal/analyze"
	"github.com/avezina/fraudlens/internal/cache"
	"github.com/avezina/fraudlens/internal/dataset"
	"github.com/avezina/fraudlens/internal/kmeans"
	"github.com/avezina/fraudlens/internal/llm"
	"github.com/avezina/fraudlens/internal/model"
)

// Pipeline orchestrates one dataset analysis: load, standardize, cluster,
// analyze, summarize, render.
type Pipeline struct {
	analyzer   *analyze.Analyzer
	renderer   *Renderer
	summarizer *llm.Summarizer // nil when LLM is disabled
	cache      cache.Cache     // nil when caching is disabled
	config     *model.Config
	seed       int64 // effective seed, resolved once per process
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	p := &Pipeline{
		analyzer: analyze.NewAnalyzer(),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
		seed:     cfg.Clustering.Seed,
	}
	if p.seed == 0 {
		p.seed = time.Now().UnixNano()
	}

	if cfg.Cache.Enabled {
		c, err := buildCache(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("init cache: %w", err)
		}
		p.cache = c
	}

	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
		p.summarizer = s
	}

	return p, nil
}

func buildCache(cfg model.CacheConfig) (cache.Cache, error) {
	if cfg.MemoryOnly {
		return cache.NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.NewLayeredCache(cfg.TTL, dir, cfg.TTL), nil
}

// AnalyzeFile runs the full analysis for one dataset file
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	sha := cache.HashBytes(raw)
	key := cache.ReportKey(sha, p.config.Clustering.Clusters, p.config.Clustering.MaxIterations,
		p.config.Clustering.Tolerance, p.seed, p.config.Scaling.Standardize)

	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var report model.Report
			if err := json.Unmarshal(data, &report); err == nil {
				p.verbosef("✓ Cache hit for %s\n", path)
				return p.withSummary(ctx, &report), nil
			}
			// Unreadable entry, fall through to a fresh run.
			_ = p.cache.Delete(key)
		}
	}

	txs, err := dataset.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%s: no transactions", path)
	}

	report, err := p.analyzeTransactions(path, sha, txs)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		// The narrative is per-invocation, so the cached copy omits it.
		if data, err := json.Marshal(report); err == nil {
			if err := p.cache.Set(key, data, p.config.Cache.TTL); err != nil {
				p.verbosef("Warning: cache write failed: %v\n", err)
			}
		}
	}

	return p.withSummary(ctx, report), nil
}

// analyzeTransactions clusters parsed transactions and builds the report
func (p *Pipeline) analyzeTransactions(path, sha string, txs []model.Transaction) (*model.Report, error) {
	points := dataset.FeatureMatrix(txs)

	scaled := p.config.Scaling.Standardize
	if scaled {
		points = dataset.FitScaler(points).Transform(points)
	}

	p.verbosef("⚙️  Clustering %d transactions (k=%d)...\n", len(txs), p.config.Clustering.Clusters)

	clusterer := kmeans.New(kmeans.Config{
		K:             p.config.Clustering.Clusters,
		MaxIterations: p.config.Clustering.MaxIterations,
		Tolerance:     p.config.Clustering.Tolerance,
		Seed:          p.seed,
	})
	result, err := clusterer.Fit(points)
	if err != nil {
		return nil, fmt.Errorf("cluster %s: %w", path, err)
	}

	clusters, err := p.analyzer.Clusters(txs, result.Assignments, p.config.Clustering.Clusters)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}

	metrics := p.analyzer.Metrics(clusters)
	metrics.Inertia = result.Inertia
	metrics.Iterations = result.Iterations
	metrics.Converged = result.Converged

	labeled := 0
	for i := range txs {
		if txs[i].Labeled {
			labeled++
		}
	}

	return &model.Report{
		Dataset: model.DatasetMeta{
			Path:        path,
			SHA256:      sha,
			Rows:        len(txs),
			LabeledRows: labeled,
		},
		Params: model.ClusterParams{
			Clusters:      p.config.Clustering.Clusters,
			MaxIterations: p.config.Clustering.MaxIterations,
			Tolerance:     p.config.Clustering.Tolerance,
			Seed:          p.seed,
			Scaled:        scaled,
		},
		Clusters:   clusters,
		Metrics:    metrics,
		Separation: p.analyzer.Separation(txs, result.Assignments, clusters),
		AnalyzedAt: time.Now().UTC(),
	}, nil
}

// withSummary attaches the optional LLM narrative. Failures degrade to a
// warning; the numbers stand on their own.
func (p *Pipeline) withSummary(ctx context.Context, report *model.Report) *model.Report {
	if p.summarizer == nil || report.LLM != nil {
		return report
	}
	summary, err := p.summarizer.Summarize(ctx, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM summary failed: %v\n", err)
		return report
	}
	report.LLM = summary
	return report
}

// RenderReport writes the report to the configured outputs
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.verbosef("✓ Wrote JSON: %s\n", jsonPath)
	}
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.verbosef("✓ Wrote Markdown: %s\n", mdPath)
	}
	return nil
}

// Renderer exposes the pipeline's renderer for console output
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

func (p *Pipeline) verbosef(format string, args ...interface{}) {
	if p.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
