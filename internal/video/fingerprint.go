package video

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Fingerprint returns the stable content identifier for a video: the
// hex-encoded SHA-256 of its bytes. The same content always produces the
// same fingerprint regardless of filename or path.
func Fingerprint(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash video content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FingerprintFile computes the fingerprint of a video file on disk.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video for fingerprinting: %w", err)
	}
	defer f.Close()

	return Fingerprint(f)
}
