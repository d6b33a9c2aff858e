package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorage(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewLocalStorage(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	t.Run("WriteAndOpen", func(t *testing.T) {
		content := []byte("frame bytes")

		if err := store.Write("abc123/frame_000000.jpg", content); err != nil {
			t.Fatalf("Failed to write frame: %v", err)
		}

		savedPath := filepath.Join(tmpDir, "abc123", "frame_000000.jpg")
		if _, err := os.Stat(savedPath); os.IsNotExist(err) {
			t.Fatalf("Frame was not saved to expected location: %s", savedPath)
		}

		file, err := store.Open("abc123/frame_000000.jpg")
		if err != nil {
			t.Fatalf("Failed to open frame: %v", err)
		}
		defer file.Close()

		got, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("Failed to read frame: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Error("Frame content mismatch")
		}
	})

	t.Run("WriteOverwrites", func(t *testing.T) {
		if err := store.Write("abc123/frame_000005.jpg", []byte("first")); err != nil {
			t.Fatalf("Failed to write frame: %v", err)
		}
		if err := store.Write("abc123/frame_000005.jpg", []byte("second")); err != nil {
			t.Fatalf("Failed to overwrite frame: %v", err)
		}

		file, err := store.Open("abc123/frame_000005.jpg")
		if err != nil {
			t.Fatalf("Failed to open frame: %v", err)
		}
		defer file.Close()

		got, _ := io.ReadAll(file)
		if string(got) != "second" {
			t.Errorf("Expected overwritten content, got %q", got)
		}
	})

	t.Run("List", func(t *testing.T) {
		for _, name := range []string{"frame_000010.jpg", "frame_000000.jpg", "frame_000005.jpg"} {
			if err := store.Write("listfp/"+name, []byte("x")); err != nil {
				t.Fatalf("Failed to write frame: %v", err)
			}
		}

		names, err := store.List("listfp")
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}

		want := []string{"listfp/frame_000000.jpg", "listfp/frame_000005.jpg", "listfp/frame_000010.jpg"}
		if len(names) != len(want) {
			t.Fatalf("Expected %d entries, got %d", len(want), len(names))
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("Expected %s at index %d, got %s", want[i], i, names[i])
			}
		}
	})

	t.Run("ListMissingDir", func(t *testing.T) {
		names, err := store.List("no-such-fingerprint")
		if err != nil {
			t.Fatalf("Expected no error for missing dir, got %v", err)
		}
		if len(names) != 0 {
			t.Errorf("Expected empty listing, got %d entries", len(names))
		}
	})

	t.Run("RemoveDir", func(t *testing.T) {
		if err := store.Write("gone/frame_000000.jpg", []byte("x")); err != nil {
			t.Fatalf("Failed to write frame: %v", err)
		}

		if err := store.RemoveDir("gone"); err != nil {
			t.Fatalf("Failed to remove dir: %v", err)
		}

		if _, err := os.Stat(filepath.Join(tmpDir, "gone")); !os.IsNotExist(err) {
			t.Error("Directory was not removed")
		}

		// Removing again is not an error.
		if err := store.RemoveDir("gone"); err != nil {
			t.Errorf("Expected second RemoveDir to be a no-op, got %v", err)
		}
	})

	t.Run("PathTraversalPrevention", func(t *testing.T) {
		if err := store.Write("../escape.jpg", []byte("x")); err == nil {
			t.Error("Path traversal was not prevented in write")
		}
		if _, err := store.Open("../../../etc/passwd"); err == nil {
			t.Error("Path traversal was not prevented in open")
		}
		if err := store.Remove("../../../etc/passwd"); err == nil {
			t.Error("Path traversal was not prevented in delete")
		}
	})
}
