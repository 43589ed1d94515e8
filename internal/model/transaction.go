package model

import "github.com/shopspring/decimal"

// Transaction represents a single row of the transaction dataset
type Transaction struct {
	UserID         int             `json:"user_id"`          // Account identifier (User_ID column)
	Amount         decimal.Decimal `json:"amount"`           // Transaction_Amount
	Type           string          `json:"type"`             // Transaction_Type (e.g., "Online Purchase")
	TimeOfDay      float64         `json:"time_of_day"`      // Time_of_Transaction (hours)
	PriorFraud     int             `json:"prior_fraud"`      // Previous_Fraudulent_Transactions
	AccountAgeDays int             `json:"account_age_days"` // Account_Age
	TxLast24H      int             `json:"tx_last_24h"`      // Number_of_Transactions_Last_24H
	PaymentMethod  string          `json:"payment_method"`   // Payment_Method
	Fraudulent     bool            `json:"fraudulent"`       // Ground-truth label
	Labeled        bool            `json:"labeled"`          // Whether the Fraudulent column was present and non-blank
}

// NumFeatures is the dimensionality of the clustering feature space.
const NumFeatures = 5

// FeatureNames lists the clustering features in vector order.
// The order is load-bearing: reports index average features by it.
var FeatureNames = [NumFeatures]string{
	"amount",
	"time_of_day",
	"prior_fraud",
	"account_age_days",
	"tx_last_24h",
}

// FeatureVector converts the transaction into the numeric feature vector
// used for clustering. Missing values were already defaulted to zero at
// parse time, so this is a straight projection.
func (t *Transaction) FeatureVector() []float64 {
	return []float64{
		t.Amount.InexactFloat64(),
		t.TimeOfDay,
		float64(t.PriorFraud),
		float64(t.AccountAgeDays),
		float64(t.TxLast24H),
	}
}
