package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

// VectorCache stores per-frame embedding vectors. Implemented natively by
// PgVectorStore and, via VectorAdapter, by any byte Store.
type VectorCache interface {
	GetVector(ctx context.Context, key string) ([]float32, bool, error)
	SetVector(ctx context.Context, key string, vec []float32) error
}

// EncodeVector serializes an embedding as little-endian float32 bytes.
func EncodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DecodeVector is the inverse of EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding payload length %d is not a multiple of 4", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

// VectorAdapter lets a byte Store serve as a VectorCache.
type VectorAdapter struct {
	Store Store
}

func (a VectorAdapter) GetVector(ctx context.Context, key string) ([]float32, bool, error) {
	data, ok, err := a.Store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	vec, err := DecodeVector(data)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return vec, true, nil
}

func (a VectorAdapter) SetVector(ctx context.Context, key string, vec []float32) error {
	return a.Store.Set(ctx, key, EncodeVector(vec))
}
