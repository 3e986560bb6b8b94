package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.bytesPerSecond != 1024*1024 {
			t.Errorf("bytesPerSecond = %d, want %d", limiter.bytesPerSecond, 1024*1024)
		}
	})

	t.Run("Unlimited", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil")
		}
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil")
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.bucketSize < minBucketSize {
			t.Errorf("bucketSize = %d, want at least %d", limiter.bucketSize, minBucketSize)
		}
	})
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"", 0},
		{"0", 0},
		{"1024", 1024},
		{"50MB", 50 * 1000 * 1000},
		{"50MiB", 50 * 1024 * 1024},
		{"10M/s", 10 * 1000 * 1000},
		{" 2 GiB ", 2 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRate(tt.input)
			if err != nil {
				t.Fatalf("ParseRate(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRate(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		if _, err := ParseRate("fast"); err == nil {
			t.Error("ParseRate(fast) should fail")
		}
	})
}

func TestFormatRate(t *testing.T) {
	if got := FormatRate(0); got != "unlimited" {
		t.Errorf("FormatRate(0) = %q, want unlimited", got)
	}
	if got := FormatRate(1024 * 1024); got != "1.0 MiB/s" {
		t.Errorf("FormatRate(1MiB) = %q, want 1.0 MiB/s", got)
	}
}

func TestReaderRead(t *testing.T) {
	t.Run("ReadsAllContent", func(t *testing.T) {
		content := bytes.Repeat([]byte("x"), 200*1024)
		r := newReader(context.Background(), bytes.NewReader(content), NewLimiter(100*1024*1024))

		got, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("read %d bytes, want %d", len(got), len(content))
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		limiter := NewLimiter(1000)
		limiter.tokens = 0
		limiter.lastUpdate = time.Now().Add(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := newReader(ctx, strings.NewReader("data"), limiter)
		if _, err := r.Read(make([]byte, 4)); err == nil {
			t.Error("Read() should fail with cancelled context while waiting for tokens")
		}
	})

	t.Run("SlowRate", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping timing test in short mode")
		}
		limiter := NewLimiter(minBucketSize)
		limiter.tokens = 0
		content := bytes.Repeat([]byte("y"), minBucketSize/4)

		start := time.Now()
		r := newReader(context.Background(), bytes.NewReader(content), limiter)
		if _, err := io.ReadAll(r); err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		// A quarter bucket at one bucket per second takes about 250ms
		if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
			t.Errorf("read took %v, expected throttling", elapsed)
		}
	})
}

func TestReadCloser(t *testing.T) {
	t.Run("NilLimiter", func(t *testing.T) {
		rc := io.NopCloser(strings.NewReader("x"))
		if got := NewReadCloser(context.Background(), rc, nil); got != rc {
			t.Error("NewReadCloser() with nil limiter should return the original")
		}
	})

	t.Run("CloseAfterRead", func(t *testing.T) {
		tracker := &closeTracker{Reader: strings.NewReader("payload")}
		rc := NewReadCloser(context.Background(), tracker, NewLimiter(1024*1024))

		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("read %q, want payload", data)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if !tracker.closed {
			t.Error("Close() should close the wrapped reader")
		}
	})
}

func TestTokenBucket(t *testing.T) {
	t.Run("ShortReadReturnsTokens", func(t *testing.T) {
		limiter := NewLimiter(minBucketSize)
		r := newReader(context.Background(), strings.NewReader("abc"), limiter)

		if _, err := r.Read(make([]byte, 1024)); err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		// Only 3 bytes were consumed from a full bucket
		if limiter.tokens < limiter.bucketSize-3 {
			t.Errorf("tokens = %d, want at least %d", limiter.tokens, limiter.bucketSize-3)
		}
	})

	t.Run("RefillCapped", func(t *testing.T) {
		limiter := NewLimiter(minBucketSize)
		limiter.lastUpdate = time.Now().Add(-10 * time.Second)
		limiter.mu.Lock()
		limiter.refill()
		limiter.mu.Unlock()
		if limiter.tokens != limiter.bucketSize {
			t.Errorf("tokens = %d, want capped at %d", limiter.tokens, limiter.bucketSize)
		}
	})
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}
