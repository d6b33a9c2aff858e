package sampler

import (
	"errors"
	"fmt"
)

// Frame is one decoded frame pulled from a video source. Ordinal is the
// 0-based index in the original stream.
type Frame struct {
	Ordinal int
	Data    []byte
}

// ErrFrameDecode marks a single frame that could not be decoded. A pass
// skips the frame, counts it and continues; it never aborts the video.
var ErrFrameDecode = errors.New("frame decode failed")

// Source is a lazy, ordered pull over a video's frames. Next returns
// io.EOF once the source is exhausted, and an error wrapping
// ErrFrameDecode when one frame is unusable but the stream continues.
type Source interface {
	Next() (*Frame, error)
	Close() error
}

// SourceError marks a video that could not be opened or decoded at all.
// It aborts that video's pass but never a batch of siblings.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("video source %s: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
