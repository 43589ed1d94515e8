package dataset

import (
	"math"
	"strings"
	"testing"
)

const sampleCSV = `User_ID,Transaction_Amount,Transaction_Type,Time_of_Transaction,Previous_Fraudulent_Transactions,Account_Age,Number_of_Transactions_Last_24H,Payment_Method,Fraudulent
1,100.50,Online Purchase,1.0,0,365,2,Credit Card,0
2,1000,Transfer,2.5,1,30,5,Bank Transfer,1
1,50,ATM Withdrawal,3.0,0,365,3,Debit Card,0
`

func TestRead_ParsesRows(t *testing.T) {
	txs, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}

	first := txs[0]
	if first.UserID != 1 {
		t.Errorf("expected user 1, got %d", first.UserID)
	}
	if got := first.Amount.InexactFloat64(); got != 100.50 {
		t.Errorf("expected amount 100.50, got %f", got)
	}
	if first.Type != "Online Purchase" {
		t.Errorf("unexpected type %q", first.Type)
	}
	if first.Fraudulent || !first.Labeled {
		t.Errorf("expected labeled non-fraud, got fraudulent=%v labeled=%v", first.Fraudulent, first.Labeled)
	}
	if !txs[1].Fraudulent {
		t.Error("expected second row to be fraudulent")
	}
}

func TestRead_ColumnOrderIndependent(t *testing.T) {
	reordered := `Fraudulent,Payment_Method,User_ID,Transaction_Type,Transaction_Amount
1,Credit Card,7,Transfer,250
`
	txs, err := Read(strings.NewReader(reordered))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if txs[0].UserID != 7 || !txs[0].Fraudulent {
		t.Errorf("column mapping broken: %+v", txs[0])
	}
}

func TestRead_MissingValuesDefaultToZero(t *testing.T) {
	sparse := `User_ID,Transaction_Amount,Transaction_Type,Time_of_Transaction,Previous_Fraudulent_Transactions,Account_Age,Number_of_Transactions_Last_24H,Payment_Method,Fraudulent
3,,Online Purchase,,,,,Credit Card,
`
	txs, err := Read(strings.NewReader(sparse))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	tx := txs[0]
	vec := tx.FeatureVector()
	for i, v := range vec {
		if v != 0 {
			t.Errorf("feature %d: expected 0 for missing value, got %f", i, v)
		}
	}
	if tx.Labeled {
		t.Error("blank fraud column should leave the row unlabeled")
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty input", ""},
		{"missing required column", "Transaction_Amount\n100\n"},
		{"bad user id", "User_ID,Transaction_Type,Payment_Method\nabc,Transfer,Card\n"},
		{"bad amount", "User_ID,Transaction_Amount,Transaction_Type,Payment_Method\n1,not-a-number,Transfer,Card\n"},
		{"bad label", "User_ID,Transaction_Type,Payment_Method,Fraudulent\n1,Transfer,Card,maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.csv)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFeatureMatrix_Shape(t *testing.T) {
	txs, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	points := FeatureMatrix(txs)
	if len(points) != len(txs) {
		t.Fatalf("expected %d points, got %d", len(txs), len(points))
	}
	for i, p := range points {
		if len(p) != 5 {
			t.Errorf("point %d: expected 5 features, got %d", i, len(p))
		}
	}
}

func TestScaler_RoundTrip(t *testing.T) {
	points := [][]float64{
		{100, 1, 0, 365, 2},
		{1000, 2.5, 1, 30, 5},
		{50, 3, 0, 365, 3},
	}

	s := FitScaler(points)
	scaled := s.Transform(points)

	// Each column should be centered after standardization.
	for d := 0; d < 5; d++ {
		sum := 0.0
		for i := range scaled {
			sum += scaled[i][d]
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("column %d not centered: sum %f", d, sum)
		}
	}

	// Inverse must restore original units.
	for i := range scaled {
		back := s.Inverse(scaled[i])
		for d := range back {
			if math.Abs(back[d]-points[i][d]) > 1e-9 {
				t.Errorf("point %d dim %d: got %f back, want %f", i, d, back[d], points[i][d])
			}
		}
	}
}

func TestScaler_ZeroVarianceColumn(t *testing.T) {
	points := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}
	s := FitScaler(points)
	scaled := s.Transform(points)
	for i := range scaled {
		if scaled[i][0] != 0 {
			t.Errorf("constant column should center to 0, got %f", scaled[i][0])
		}
	}
	back := s.Inverse(scaled[0])
	if back[0] != 5 {
		t.Errorf("inverse of constant column: got %f, want 5", back[0])
	}
}
