package cache

import (
	"strings"
	"testing"
	"time"
)

func TestReportKey_SensitiveToParams(t *testing.T) {
	sha := HashBytes([]byte("dataset"))

	base := ReportKey(sha, 10, 100, 1e-4, 42, true)
	if !strings.HasPrefix(base, "fraudlens:v1:") {
		t.Errorf("unexpected key prefix: %s", base)
	}

	variants := []string{
		ReportKey(sha, 11, 100, 1e-4, 42, true),
		ReportKey(sha, 10, 200, 1e-4, 42, true),
		ReportKey(sha, 10, 100, 1e-3, 42, true),
		ReportKey(sha, 10, 100, 1e-4, 43, true),
		ReportKey(sha, 10, 100, 1e-4, 42, false),
		ReportKey(HashBytes([]byte("other dataset")), 10, 100, 1e-4, 42, true),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d produced the same key as base", i)
		}
	}

	if again := ReportKey(sha, 10, 100, 1e-4, 42, true); again != base {
		t.Error("identical inputs must produce identical keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "report" {
		t.Errorf("expected cached report, got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	key := ReportKey(HashBytes([]byte("x")), 2, 10, 1e-4, 0, false)
	if err := c.Set(key, []byte(`{"ok":true}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != `{"ok":true}` {
		t.Errorf("expected cached report, got %q found=%v", val, found)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("r"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write through the disk layer only, simulating a previous process.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("k", []byte("r"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := layered.Get("k")
	if !found || string(val) != "r" {
		t.Fatalf("expected disk hit via layered cache, got %q found=%v", val, found)
	}

	// Second read should be served from memory even if disk is cleared.
	if err := disk.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := layered.Get("k"); !found {
		t.Error("expected promoted memory hit after disk clear")
	}
}
