package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestDirStore(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create dir store: %v", err)
	}
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "embed:abc123:0")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected miss for unseen key")
		}

		if err := store.Set(ctx, "embed:abc123:0", []byte("payload")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		got, ok, err := store.Get(ctx, "embed:abc123:0")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok {
			t.Fatal("Expected hit after set")
		}
		if !bytes.Equal(got, []byte("payload")) {
			t.Errorf("Expected payload, got %q", got)
		}
	})

	t.Run("LastWriterWins", func(t *testing.T) {
		if err := store.Set(ctx, "embed:abc123:1", []byte("first")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, "embed:abc123:1", []byte("second")); err != nil {
			t.Fatalf("Second set failed: %v", err)
		}

		got, _, err := store.Get(ctx, "embed:abc123:1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != "second" {
			t.Errorf("Expected last write to win, got %q", got)
		}
	})

	t.Run("RejectsUnsafeKey", func(t *testing.T) {
		if err := store.Set(ctx, "../escape", []byte("x")); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument for unsafe key, got %v", err)
		}
	})
}

func TestGetOrCompute(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create dir store: %v", err)
	}
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	got, err := GetOrCompute(ctx, store, "embed:abc123:2", compute)
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if string(got) != "computed" {
		t.Errorf("Expected computed value, got %q", got)
	}
	if calls != 1 {
		t.Errorf("Expected 1 compute call, got %d", calls)
	}

	got, err = GetOrCompute(ctx, store, "embed:abc123:2", compute)
	if err != nil {
		t.Fatalf("Second GetOrCompute failed: %v", err)
	}
	if string(got) != "computed" {
		t.Errorf("Expected cached value, got %q", got)
	}
	if calls != 1 {
		t.Errorf("Expected cache hit to skip compute, got %d calls", calls)
	}
}

func TestGetOrCompute_ComputeError(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create dir store: %v", err)
	}

	wantErr := errors.New("model unavailable")
	_, err = GetOrCompute(context.Background(), store, "embed:abc123:3", func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected compute error to propagate, got %v", err)
	}

	// Nothing must be cached after a failed compute.
	_, ok, err := store.Get(context.Background(), "embed:abc123:3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Failed compute left a cache entry behind")
	}
}

func TestVectorAdapter_RoundTrip(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create dir store: %v", err)
	}
	adapter := VectorAdapter{Store: store}
	ctx := context.Background()

	vec := []float32{0.25, -1.5, 3.0, 0}
	if err := adapter.SetVector(ctx, "embed:abc123:4", vec); err != nil {
		t.Fatalf("SetVector failed: %v", err)
	}

	got, ok, err := adapter.GetVector(ctx, "embed:abc123:4")
	if err != nil {
		t.Fatalf("GetVector failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected hit after SetVector")
	}
	if len(got) != len(vec) {
		t.Fatalf("Expected %d dims, got %d", len(vec), len(got))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("Dim %d: expected %f, got %f", i, vec[i], got[i])
		}
	}
}

func TestVectorAdapter_CorruptEntry(t *testing.T) {
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create dir store: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "embed:abc123:5", []byte("odd")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	adapter := VectorAdapter{Store: store}
	if _, _, err := adapter.GetVector(ctx, "embed:abc123:5"); err == nil {
		t.Error("Expected error for corrupt cache entry")
	}
}
