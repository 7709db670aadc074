package sink

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSinkWrite(t *testing.T) {
	for _, compress := range []bool{false, true} {
		dir := t.TempDir()
		fs, err := NewFileSink(FileSinkConfig{QueueDir: dir, Compress: compress})
		if err != nil {
			t.Fatalf("NewFileSink: %v", err)
		}

		payload := []byte(`{"sensor":"kitchen","temperature_c":21.5}`)
		for i := 0; i < 2; i++ {
			if err := fs.Write(context.Background(), payload, "kitchen"); err != nil {
				t.Fatalf("Write: %v", err)
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Fatalf("compress=%v: %d files, want 2 distinct files", compress, len(entries))
		}

		name := entries[0].Name()
		wantExt := ".json"
		if compress {
			wantExt = ".json.zst"
		}
		if !strings.HasSuffix(name, "_kitchen"+wantExt) {
			t.Errorf("compress=%v: file %q, want suffix _kitchen%s", compress, name, wantExt)
		}

		got, err := ReadQueued(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadQueued: %v", err)
		}
		if string(got) != string(payload) {
			t.Errorf("compress=%v: ReadQueued = %q, want %q", compress, got, payload)
		}
	}
}

func TestFileSinkEmptyData(t *testing.T) {
	fs, _ := NewFileSink(FileSinkConfig{QueueDir: t.TempDir()})
	if err := fs.Write(context.Background(), nil, "kitchen"); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestReadQueuedCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1_0001_x.json.zst")
	if err := os.WriteFile(path, []byte("not zstd"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadQueued(path); err == nil {
		t.Fatal("expected error for corrupt zstd file")
	}
}

func TestFileSinkRejectsPathSeparators(t *testing.T) {
	root := t.TempDir()
	queue := filepath.Join(root, "a", "queue")

	fs, err := NewFileSink(FileSinkConfig{QueueDir: queue})
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	for _, id := range []string{"attic/rack", "x/../../escaped", `..\..\escaped`, ""} {
		err := fs.Write(context.Background(), []byte(`{}`), id)

		var sinkErr *SinkError
		if !errors.As(err, &sinkErr) || sinkErr.IsRetryable() {
			t.Errorf("Write(%q) = %v, want permanent SinkError", id, err)
		}
	}

	var written []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			written = append(written, path)
		}
		return nil
	})
	if len(written) != 0 {
		t.Errorf("files written = %v, want none", written)
	}
}

func TestFileSinkAcceptsDottedID(t *testing.T) {
	dir := t.TempDir()
	fs, _ := NewFileSink(FileSinkConfig{QueueDir: dir})

	if err := fs.Write(context.Background(), []byte(`{}`), "x-..-..-escaped"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("%d files in queue dir, want 1", len(entries))
	}
}
