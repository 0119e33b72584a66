package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()

	if _, ok, err := c.GetBytes("missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.SetBytes(MetricsKey("Retail"), []byte(`{"a":1}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	b, ok, err := c.GetBytes(MetricsKey("Retail"))
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(b, []byte(`{"a":1}`)) {
		t.Fatalf("unexpected value %q", b)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()

	if err := c.SetBytes("k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.GetBytes("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache()

	if err := c.SetBytes("k", []byte("v"), 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, ok, _ := c.GetBytes("k"); !ok {
		t.Fatal("zero ttl entry should not expire")
	}
}

func TestForecastKeyShape(t *testing.T) {
	if got := ForecastKey("Retail", "hires", 6); got != "forecast:Retail:hires:6" {
		t.Fatalf("unexpected key %q", got)
	}
}
