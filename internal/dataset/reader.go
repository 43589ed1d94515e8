package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/avezina/fraudlens/internal/model"
	"github.com/shopspring/decimal"
)

// Expected CSV column headers. Matching is case-insensitive and tolerant
// of column order; extra columns are ignored.
const (
	colUserID        = "user_id"
	colAmount        = "transaction_amount"
	colType          = "transaction_type"
	colTime          = "time_of_transaction"
	colPriorFraud    = "previous_fraudulent_transactions"
	colAccountAge    = "account_age"
	colTxLast24H     = "number_of_transactions_last_24h"
	colPaymentMethod = "payment_method"
	colFraudulent    = "fraudulent"
)

// ReadFile reads transactions from a CSV file on disk
func ReadFile(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	txs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// Read parses transactions from CSV data. The first record must be a
// header row naming the columns.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	for _, required := range []string{colUserID, colType, colPaymentMethod} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	var txs []model.Transaction
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		tx, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func parseRecord(record []string, cols map[string]int) (model.Transaction, error) {
	var tx model.Transaction

	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	userID, err := strconv.Atoi(field(colUserID))
	if err != nil {
		return tx, fmt.Errorf("user id %q: %w", field(colUserID), err)
	}
	tx.UserID = userID
	tx.Type = field(colType)
	tx.PaymentMethod = field(colPaymentMethod)

	// Missing numeric features default to zero, matching the original
	// study's treatment of blank cells.
	if v := field(colAmount); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return tx, fmt.Errorf("amount %q: %w", v, err)
		}
		tx.Amount = amount
	}
	if tx.TimeOfDay, err = parseOptionalFloat(field(colTime)); err != nil {
		return tx, fmt.Errorf("time of transaction: %w", err)
	}
	if tx.PriorFraud, err = parseOptionalInt(field(colPriorFraud)); err != nil {
		return tx, fmt.Errorf("previous fraudulent transactions: %w", err)
	}
	if tx.AccountAgeDays, err = parseOptionalInt(field(colAccountAge)); err != nil {
		return tx, fmt.Errorf("account age: %w", err)
	}
	if tx.TxLast24H, err = parseOptionalInt(field(colTxLast24H)); err != nil {
		return tx, fmt.Errorf("transactions last 24h: %w", err)
	}

	if v := field(colFraudulent); v != "" {
		label, err := strconv.Atoi(v)
		if err != nil {
			return tx, fmt.Errorf("fraud label %q: %w", v, err)
		}
		tx.Fraudulent = label == 1
		tx.Labeled = true
	}

	return tx, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return v, nil
}

func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// Some exports write integer columns as floats ("365.0").
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return int(v), nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(name, "\ufeff")))
}

// FeatureMatrix projects transactions into the clustering feature space
func FeatureMatrix(txs []model.Transaction) [][]float64 {
	points := make([][]float64, len(txs))
	for i := range txs {
		points[i] = txs[i].FeatureVector()
	}
	return points
}
