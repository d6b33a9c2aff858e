package storage

import (
	"io"
)

// FrameStore is the durable backend sampled frames are written to. Paths
// are store-relative, slash-separated keys like
// "<fingerprint>/frame_000015.jpg".
type FrameStore interface {
	Write(path string, data []byte) error
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
	// RemoveDir deletes a whole key prefix (one video's frames). Removing
	// a prefix that does not exist is not an error.
	RemoveDir(dir string) error
	// List returns the keys under a prefix in lexical order.
	List(dir string) ([]string, error)
}
