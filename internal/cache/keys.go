package cache

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument marks inputs the key builder rejects outright:
// empty or malformed fingerprints and negative ordinals. These are
// programmer errors, not recoverable conditions.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// DefaultNamespace is the key prefix for the embedding cache family.
	DefaultNamespace = "embed"

	// delimiter joins namespace, fingerprint and ordinal. It must never
	// appear inside a fingerprint, or keys stop parsing unambiguously;
	// Key enforces that instead of assuming it.
	delimiter = ":"
)

// KeyBuilder produces the cache keys under which per-frame embeddings are
// stored. Keys depend only on (fingerprint, ordinal), so every worker and
// every process lifetime agrees on the same key for the same frame.
type KeyBuilder struct {
	namespace string
}

// NewKeyBuilder returns a builder for the given namespace tag. Separate
// instances can carry separate namespaces without interfering.
func NewKeyBuilder(namespace string) (*KeyBuilder, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: empty namespace", ErrInvalidArgument)
	}
	if strings.Contains(namespace, delimiter) {
		return nil, fmt.Errorf("%w: namespace %q contains %q", ErrInvalidArgument, namespace, delimiter)
	}
	return &KeyBuilder{namespace: namespace}, nil
}

// Key maps (video fingerprint, frame ordinal) to the embedding cache key.
// Pure and deterministic: identical inputs always yield the identical
// string, and distinct (fingerprint, ordinal) pairs never collide.
func (b *KeyBuilder) Key(fingerprint string, ordinal int) (string, error) {
	if fingerprint == "" {
		return "", fmt.Errorf("%w: empty fingerprint", ErrInvalidArgument)
	}
	if strings.Contains(fingerprint, delimiter) {
		return "", fmt.Errorf("%w: fingerprint %q contains %q", ErrInvalidArgument, fingerprint, delimiter)
	}
	if ordinal < 0 {
		return "", fmt.Errorf("%w: negative frame ordinal %d", ErrInvalidArgument, ordinal)
	}

	return b.namespace + delimiter + fingerprint + delimiter + strconv.Itoa(ordinal), nil
}
