package llm

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/avezina/fraudlens/internal/model"
)

const systemPrompt = `You are summarizing a K-Means clustering analysis of a transaction dataset.
Write a short Markdown summary (3-6 sentences) of the findings below.
Restate only numbers that appear in the data you are given; do not invent
statistics, and do not speculate about transactions you cannot see.
If the correlation shows the clusters do not separate fraud, say so plainly.`

// Summarizer produces an optional narrative for a finished report.
// It runs after the analysis and never feeds back into the numbers.
type Summarizer struct {
	provider Provider
	model    string
	limiter  *rate.Limiter
}

// NewSummarizer creates a summarizer from configuration. Batch runs share
// one summarizer, so the rate limiter throttles API calls across datasets.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	return &Summarizer{
		provider: provider,
		model:    cfg.Model,
		limiter:  rate.NewLimiter(rate.Limit(rpm/60.0), 1),
	}, nil
}

// Summarize generates the narrative for a report
func (s *Summarizer) Summarize(ctx context.Context, report *model.Report) (*model.LLMSummary, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("llm: rate limit wait: %w", err)
	}

	text, err := s.provider.Complete(ctx, systemPrompt, renderFacts(report))
	if err != nil {
		return nil, err
	}

	summary := &model.LLMSummary{
		Enabled:   true,
		Provider:  s.provider.Name(),
		Model:     s.model,
		SummaryMD: strings.TrimSpace(text),
	}
	if summary.SummaryMD == "" {
		summary.Warnings = append(summary.Warnings, "provider returned an empty summary")
	}
	return summary, nil
}

// renderFacts flattens the report numbers into the prompt
func renderFacts(r *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s (%d rows, %d labeled)\n", r.Dataset.Path, r.Dataset.Rows, r.Dataset.LabeledRows)
	fmt.Fprintf(&b, "Clustering: k=%d, %d iterations, converged=%t, inertia=%.2f\n",
		r.Params.Clusters, r.Metrics.Iterations, r.Metrics.Converged, r.Metrics.Inertia)
	fmt.Fprintf(&b, "Overall fraud rate: %.2f%% (%d of %d)\n",
		r.Metrics.FraudRate*100, r.Metrics.TotalFraud, r.Metrics.TotalTransactions)
	fmt.Fprintf(&b, "Label correlation: %.3f — %s\n", r.Separation.Correlation, r.Separation.Verdict)
	fmt.Fprintf(&b, "Clusters (ranked by fraud rate):\n")
	for rank, c := range r.Clusters {
		fmt.Fprintf(&b, "%d. size=%d fraud=%d (%.1f%%) users=%d risk=%s type=%s payment=%s\n",
			rank+1, c.Size, c.FraudCount, c.FraudRate*100, c.UniqueUsers, c.Risk, c.TopType, c.TopPayment)
	}
	return b.String()
}
