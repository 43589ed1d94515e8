package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avezina/fraudlens/internal/model"
)

// Renderer writes analysis reports as JSON, Markdown, or console text
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// featureLabels maps feature vector slots to human-readable report lines
var featureLabels = [model.NumFeatures]struct {
	name   string
	format string
}{
	{"Avg Amount", "$%.2f"},
	{"Avg Time", "%.1f"},
	{"Avg Prev. Fraud", "%.2f"},
	{"Avg Acct Age", "%.0f days"},
	{"Avg Recent Transactions", "%.1f"},
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fraud Cluster Analysis: %s\n\n", report.Dataset.Path)
	fmt.Fprintf(&b, "Analyzed %s · %d transactions (%d labeled) · k=%d · seed=%d\n\n",
		report.AnalyzedAt.Format("2006-01-02 15:04 UTC"),
		report.Dataset.Rows, report.Dataset.LabeledRows,
		report.Params.Clusters, report.Params.Seed)

	fmt.Fprintf(&b, "## Verdict\n\n%s\n\n", report.Separation.Verdict)

	fmt.Fprintf(&b, "## Clusters (by fraud rate)\n\n")
	fmt.Fprintf(&b, "| Rank | Size | Fraud | Rate | Users | Risk | Top Type | Top Payment |\n")
	fmt.Fprintf(&b, "|------|------|-------|------|-------|------|----------|-------------|\n")
	for i, c := range report.Clusters {
		fmt.Fprintf(&b, "| %d | %d | %d | %.1f%% | %d | %s | %s | %s |\n",
			i+1, c.Size, c.FraudCount, c.FraudRate*100, c.UniqueUsers, c.Risk, c.TopType, c.TopPayment)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Overall\n\n")
	fmt.Fprintf(&b, "- Total transactions: %d\n", report.Metrics.TotalTransactions)
	fmt.Fprintf(&b, "- Total fraudulent: %d\n", report.Metrics.TotalFraud)
	fmt.Fprintf(&b, "- Overall fraud rate: %.2f%%\n", report.Metrics.FraudRate*100)
	fmt.Fprintf(&b, "- Label correlation: %.3f\n", report.Separation.Correlation)
	fmt.Fprintf(&b, "- Inertia: %.2f after %d iterations (converged: %t)\n\n",
		report.Metrics.Inertia, report.Metrics.Iterations, report.Metrics.Converged)

	if report.LLM != nil && report.LLM.Enabled && report.LLM.SummaryMD != "" {
		fmt.Fprintf(&b, "## Narrative (LLM, %s/%s)\n\n%s\n\n", report.LLM.Provider, report.LLM.Model, report.LLM.SummaryMD)
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by fraudlens. The narrative section, if present, is\nLLM-generated and never affects the numbers above.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderConsole prints the human-readable summary the analyze command
// shows by default. top limits the clusters printed; 0 prints all.
func (r *Renderer) RenderConsole(w io.Writer, report *model.Report, top int) {
	fmt.Fprintf(w, "K-Means clustering (k=%d)\n", report.Params.Clusters)
	fmt.Fprintf(w, "Fraud Detection Analysis Results:\n")
	fmt.Fprintf(w, "\nHigh-Risk Clusters (Sorted by Fraud Rate):\n")

	shown := report.Clusters
	if top > 0 && top < len(shown) {
		shown = shown[:top]
	}
	for i, c := range shown {
		r.renderCluster(w, c, i+1)
	}
	if len(shown) < len(report.Clusters) {
		fmt.Fprintf(w, "\n(%d more clusters omitted; see the JSON report)\n", len(report.Clusters)-len(shown))
	}

	fmt.Fprintf(w, "\nOverall Metrics:\n")
	fmt.Fprintf(w, "Total Transactions: %d\n", report.Metrics.TotalTransactions)
	fmt.Fprintf(w, "Total Fraudulent: %d\n", report.Metrics.TotalFraud)
	fmt.Fprintf(w, "Overall Fraud Rate: %.2f%%\n", report.Metrics.FraudRate*100)
	fmt.Fprintf(w, "Label Correlation: %.3f\n", report.Separation.Correlation)
	fmt.Fprintf(w, "\n%s\n", report.Separation.Verdict)
}

func (r *Renderer) renderCluster(w io.Writer, c model.ClusterReport, rank int) {
	fmt.Fprintf(w, "\nCluster Rank %d (Fraud Rate: %.1f%%)\n", rank, c.FraudRate*100)
	fmt.Fprintf(w, "Size: %d transactions\n", c.Size)
	fmt.Fprintf(w, "Fraudulent: %d (%.1f%%)\n", c.FraudCount, c.FraudRate*100)
	fmt.Fprintf(w, "Unique Users: %d\n", c.UniqueUsers)

	fmt.Fprintf(w, "\nFeature Analysis:\n")
	if len(c.AvgFeatures) == model.NumFeatures {
		for i, label := range featureLabels {
			fmt.Fprintf(w, "%s: %s\n", label.name, fmt.Sprintf(label.format, c.AvgFeatures[i]))
		}
	}

	fmt.Fprintf(w, "\nCommon Characteristics:\n")
	fmt.Fprintf(w, "Transaction Type: %s\n", c.TopType)
	fmt.Fprintf(w, "Payment Method: %s\n", c.TopPayment)

	fmt.Fprintf(w, "\n  Risk Level: %s\n", riskLabel(c.Risk))
}

func riskLabel(r model.RiskLevel) string {
	switch r {
	case model.RiskHigh:
		return "High Risk"
	case model.RiskMedium:
		return "Medium Risk"
	default:
		return "Low Risk"
	}
}
