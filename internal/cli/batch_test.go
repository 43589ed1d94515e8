package cli

import "testing"

func TestDatasetSlug(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"fraud_detection.csv", "fraud_detection"},
		{"/data/sets/q3 export.csv", "q3_export"},
		{"weird:name?.csv", "weird_name_"},
		{"....csv", "___"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		if got := datasetSlug(tt.path); got != tt.want {
			t.Errorf("datasetSlug(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
