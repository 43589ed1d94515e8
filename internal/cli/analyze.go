package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/avezina/fraudlens/internal/model"
	"github.com/avezina/fraudlens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	clusters    int
	maxIter     int
	tolerance   float64
	seed        int64
	noScale     bool
	outJSON     string
	outMD       string
	noCache     bool
	noFooter    bool
	topClusters int
	timeout     time.Duration
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <csv>",
	Short: "Cluster a transaction dataset and report fraud-label alignment",
	Long: `Analyze loads a transaction CSV, clusters it with K-Means, and reports:
- Per-cluster statistics (size, fraud rate, unique users, feature averages)
- The most common transaction type and payment method per cluster
- A risk level per cluster derived from its fraud rate
- Whether cluster membership correlates with the fraud label at all

Example:
  fraudlens analyze fraud_detection.csv
  fraudlens analyze fraud_detection.csv -k 10 --seed 42 --json report.json
  fraudlens analyze fraud_detection.csv --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Clustering flags
	analyzeCmd.Flags().IntVarP(&clusters, "clusters", "k", 10, "number of clusters")
	analyzeCmd.Flags().IntVar(&maxIter, "max-iter", 100, "iteration cap")
	analyzeCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-4, "convergence threshold on centroid movement")
	analyzeCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for reproducible runs (0 derives one from the clock)")
	analyzeCmd.Flags().BoolVar(&noScale, "no-scale", false, "cluster raw feature values without standardization")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().IntVar(&topClusters, "top", 0, "clusters to print on the console (0 = all)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache (force a fresh run)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Clusters: %d, max iterations: %d, tolerance: %g\n",
			cfg.Clustering.Clusters, cfg.Clustering.MaxIterations, cfg.Clustering.Tolerance)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	report, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Clustered %d transactions into %d non-empty clusters\n",
			report.Metrics.TotalTransactions, len(report.Clusters))
		fmt.Fprintf(os.Stderr, "✓ Converged: %t after %d iterations\n",
			report.Metrics.Converged, report.Metrics.Iterations)
		fmt.Fprintln(os.Stderr)
	}

	p.Renderer().RenderConsole(os.Stdout, report, cfg.Output.TopClusters)

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// buildConfig merges defaults, config file values, and flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	cfg.Clustering.Clusters = clusters
	cfg.Clustering.MaxIterations = maxIter
	cfg.Clustering.Tolerance = tolerance
	cfg.Clustering.Seed = seed
	cfg.Scaling.Standardize = !noScale
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.TopClusters = topClusters
	cfg.Output.IncludeFooter = !noFooter

	if clusters <= 0 {
		return nil, fmt.Errorf("--clusters must be positive, got %d", clusters)
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		default:
			return nil, fmt.Errorf("unknown LLM provider %q", llmProvider)
		}
	}

	return cfg, nil
}
