package model

import "time"

// Report represents the complete fraudlens analysis of one dataset
type Report struct {
	Dataset    DatasetMeta     `json:"dataset"`     // Where the data came from
	Params     ClusterParams   `json:"params"`      // Clustering parameters used
	Clusters   []ClusterReport `json:"clusters"`    // Per-cluster analysis, sorted by fraud rate (desc)
	Metrics    Metrics         `json:"metrics"`     // Aggregates across all clusters
	Separation Separation      `json:"separation"`  // How well clusters track the fraud label
	AnalyzedAt time.Time       `json:"analyzed_at"` // When the analysis ran

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM narrative (never affects the numbers)
}

// DatasetMeta identifies the analyzed dataset
type DatasetMeta struct {
	Path        string `json:"path"`
	SHA256      string `json:"sha256"`        // Hash of the raw file bytes
	Rows        int    `json:"rows"`          // Parsed transactions
	LabeledRows int    `json:"labeled_rows"`  // Rows carrying a fraud label
	SkippedRows int    `json:"skipped_rows"`  // Rows dropped as unparseable (always 0 today; parsing aborts)
}

// ClusterParams records the K-Means configuration that produced the report
type ClusterParams struct {
	Clusters      int     `json:"clusters"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	Seed          int64   `json:"seed"`
	Scaled        bool    `json:"scaled"` // Whether features were standardized before clustering
}

// ClusterReport holds the per-cluster statistics the analysis reports on
type ClusterReport struct {
	ID            int       `json:"id"`              // Centroid index
	Size          int       `json:"size"`            // Transactions assigned
	FraudCount    int       `json:"fraud_count"`     // Labeled-fraud transactions assigned
	FraudRate     float64   `json:"fraud_rate"`      // FraudCount / Size
	UniqueUsers   int       `json:"unique_users"`    // Distinct UserIDs
	AvgFeatures   []float64 `json:"avg_features"`    // Per-feature means, original (unscaled) units
	TopType       string    `json:"top_type"`        // Most common transaction type
	TopPayment    string    `json:"top_payment"`     // Most common payment method
	Risk          RiskLevel `json:"risk"`            // Derived from FraudRate
}

// Metrics aggregates statistics across all clusters
type Metrics struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalFraud        int     `json:"total_fraud"`
	FraudRate         float64 `json:"fraud_rate"`
	Inertia           float64 `json:"inertia"`    // Final sum of squared distances to assigned centroids
	Iterations        int     `json:"iterations"` // K-Means iterations run
	Converged         bool    `json:"converged"`  // Whether centroids stabilized before the cap
}

// Separation quantifies whether cluster membership predicts the fraud label
type Separation struct {
	Correlation float64 `json:"correlation"` // Point-biserial correlation, cluster fraud rate vs. label
	Verdict     string  `json:"verdict"`     // Plain-language reading of the correlation
}

// RiskLevel classifies a cluster by its fraud rate
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// Fraud-rate thresholds for risk classification
const (
	HighRiskFraudRate   = 0.5
	MediumRiskFraudRate = 0.2
)

// RiskFromRate maps a fraud rate to a risk level
func RiskFromRate(rate float64) RiskLevel {
	switch {
	case rate >= HighRiskFraudRate:
		return RiskHigh
	case rate >= MediumRiskFraudRate:
		return RiskMedium
	default:
		return RiskLow
	}
}

// LLMSummary contains the optional LLM-generated narrative.
// It is generated after the analysis and never feeds back into it.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
