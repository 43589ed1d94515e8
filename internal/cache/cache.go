package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for report caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ReportKey generates a cache key for an analysis report. The key covers
// both the dataset bytes and the clustering parameters, so changing k,
// the iteration cap, tolerance, seed or scaling never serves a stale report.
func ReportKey(datasetSHA256 string, clusters, maxIter int, tolerance float64, seed int64, scaled bool) string {
	params := fmt.Sprintf("%s|k=%d|iter=%d|tol=%g|seed=%d|scaled=%t",
		datasetSHA256, clusters, maxIter, tolerance, seed, scaled)
	hash := sha256.Sum256([]byte(params))
	return "fraudlens:v1:" + hex.EncodeToString(hash[:])
}

// HashBytes returns the hex-encoded sha256 of raw dataset bytes
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
