package sampler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PhoenixWild29/secureai-deepfake-detection-sub007/internal/storage"
)

// fakeOpen stands in for ffmpeg: files containing "corrupt" fail to open,
// anything else decodes to ten stub frames.
func fakeOpen(ctx context.Context, path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Err: err}
	}
	if string(data) == "corrupt" {
		return nil, &SourceError{Path: path, Err: os.ErrInvalid}
	}
	return &stubSource{frames: makeFrames(10)}, nil
}

func newBatchSampler(t *testing.T) (*Sampler, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	s, err := New(store, 2)
	if err != nil {
		t.Fatalf("Failed to create sampler: %v", err)
	}
	s.open = fakeOpen
	return s, store
}

func TestSampleDir_PartialFailureIsolation(t *testing.T) {
	s, _ := newBatchSampler(t)

	root := t.TempDir()
	files := map[string]string{
		"a.mp4":        "valid video a",
		"nested/b.mov": "valid video b",
		"c.mp4":        "corrupt",
		"notes.txt":    "not a video",
	}
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	outcomes, err := s.SampleDir(context.Background(), root, 2)
	if err != nil {
		t.Fatalf("SampleDir failed: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes (txt excluded), got %d", len(outcomes))
	}

	var ok, failed int
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			if filepath.Base(out.Path) != "c.mp4" {
				t.Errorf("Unexpected failure for %s: %v", out.Path, out.Err)
			}
			continue
		}
		ok++
		if out.Fingerprint == "" {
			t.Errorf("Successful outcome for %s missing fingerprint", out.Path)
		}
		if out.Summary.Sampled != 5 {
			t.Errorf("Expected 5 sampled frames for %s, got %d", out.Path, out.Summary.Sampled)
		}
	}

	if ok != 2 || failed != 1 {
		t.Errorf("Expected 2 successes and 1 failure, got %d/%d", ok, failed)
	}
}

func TestSampleDir_DistinctFingerprints(t *testing.T) {
	s, _ := newBatchSampler(t)

	root := t.TempDir()
	for name, content := range map[string]string{"a.mp4": "alpha", "b.mp4": "beta"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
	}

	outcomes, err := s.SampleDir(context.Background(), root, 1)
	if err != nil {
		t.Fatalf("SampleDir failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Fingerprint == outcomes[1].Fingerprint {
		t.Error("Distinct videos produced the same fingerprint")
	}
}

func TestSampleDir_EmptyTree(t *testing.T) {
	s, _ := newBatchSampler(t)

	outcomes, err := s.SampleDir(context.Background(), t.TempDir(), 4)
	if err != nil {
		t.Fatalf("SampleDir failed on empty tree: %v", err)
	}
	if len(outcomes) != 0 {
		t.Errorf("Expected no outcomes, got %d", len(outcomes))
	}
}

func TestSampleDir_MissingRoot(t *testing.T) {
	s, _ := newBatchSampler(t)

	if _, err := s.SampleDir(context.Background(), filepath.Join(t.TempDir(), "missing"), 1); err == nil {
		t.Error("Expected error for missing root")
	}
}
