package sampler

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// FFmpegSource decodes a video sequentially by running ffmpeg with MJPEG
// pipe output and splitting stdout on JPEG SOI/EOI markers. Frames are
// produced one at a time, so memory use stays bounded on long videos.
type FFmpegSource struct {
	path    string
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	r       *bufio.Reader
	stderr  bytes.Buffer
	ordinal int
	waited  bool
}

// OpenVideo starts an ffmpeg decode of the video at path. A file that is
// missing, or for which ffmpeg cannot be started, is a fatal SourceError.
func OpenVideo(ctx context.Context, path string) (*FFmpegSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, &SourceError{Path: path, Err: fmt.Errorf("ffmpeg not found in PATH: %w", err)}
	}

	s := &FFmpegSource{path: path}
	s.cmd = exec.CommandContext(ctx, ffmpegPath,
		"-i", path,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "2",
		"-",
	)
	s.cmd.Stderr = &s.stderr

	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	s.stdout = stdout
	s.r = bufio.NewReaderSize(stdout, 256*1024)

	if err := s.cmd.Start(); err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}

	return s, nil
}

func (s *FFmpegSource) Next() (*Frame, error) {
	data, err := readJPEG(s.r)
	if err == io.EOF {
		return nil, s.finish()
	}
	if err != nil {
		// A frame truncated mid-stream consumed an ordinal; skip it.
		ordinal := s.ordinal
		s.ordinal++
		return nil, fmt.Errorf("%w: frame %d of %s: %v", ErrFrameDecode, ordinal, s.path, err)
	}

	f := &Frame{Ordinal: s.ordinal, Data: data}
	s.ordinal++
	return f, nil
}

// finish reaps ffmpeg once the pipe is drained. A nonzero exit with zero
// decoded frames means the video could not be decoded at all.
func (s *FFmpegSource) finish() error {
	if !s.waited {
		s.waited = true
		if err := s.cmd.Wait(); err != nil {
			if s.ordinal == 0 {
				return &SourceError{Path: s.path, Err: fmt.Errorf("%v: %s", err, tail(s.stderr.Bytes()))}
			}
			log.Warn().
				Str("video", s.path).
				Int("frames", s.ordinal).
				Err(err).
				Msg("ffmpeg exited nonzero after decoding frames")
		}
	}
	return io.EOF
}

func (s *FFmpegSource) Close() error {
	s.stdout.Close()
	if !s.waited {
		s.waited = true
		s.cmd.Wait()
	}
	return nil
}

// readJPEG scans the MJPEG stream for the next SOI marker and reads
// through the matching EOI. io.EOF between frames means the stream is
// done; EOF inside a frame is a truncated frame.
func readJPEG(r *bufio.Reader) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if b != 0xFF {
			continue
		}
		nb, err := r.ReadByte()
		if err != nil {
			return nil, io.EOF
		}
		if nb == 0xD8 {
			break
		}
	}

	buf := []byte{0xFF, 0xD8}
	prev := byte(0)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("truncated jpeg stream: %w", io.ErrUnexpectedEOF)
		}
		buf = append(buf, b)
		if prev == 0xFF && b == 0xD9 {
			return buf, nil
		}
		prev = b
	}
}

// tail keeps the last chunk of ffmpeg's stderr for error context.
func tail(b []byte) []byte {
	const max = 512
	if len(b) > max {
		return b[len(b)-max:]
	}
	return b
}
