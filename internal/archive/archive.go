package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

const (
	extPlain = ".json"
	extZstd  = ".json.zst"
)

// Snapshot is a cleared session history preserved on reset.
type Snapshot struct {
	ID         string    `json:"id"`
	ArchivedAt time.Time `json:"archived_at"`
	History    []string  `json:"history"`
}

// Save writes history into archiveDir/{id}.json.zst (or .json when compress
// is false). IDs are UUIDv7 so file names sort by creation time.
// Returns the archive path.
func Save(history []string, archiveDir string, compress bool, now time.Time) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("nothing to archive")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate archive id: %w", err)
	}

	snap := Snapshot{ID: id.String(), ArchivedAt: now.UTC(), History: history}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	ext := extPlain
	if compress {
		ext = extZstd
	}
	destPath := filepath.Join(archiveDir, snap.ID+ext)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}

	if err := writeSnapshot(dest, data, compress); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", err
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("close archive: %w", err)
	}
	return destPath, nil
}

func writeSnapshot(w io.Writer, data []byte, compress bool) error {
	if !compress {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write archive: %w", err)
		}
		return nil
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, bytes.NewReader(data)); err != nil {
		encoder.Close()
		return fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save, compressed or not.
func Load(path string) (Snapshot, error) {
	src, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	var r io.Reader = src
	if strings.HasSuffix(path, extZstd) {
		decoder, err := zstd.NewReader(src)
		if err != nil {
			return Snapshot{}, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode archive: %w", err)
	}
	return snap, nil
}

// List returns archive paths in archiveDir, oldest first. A missing
// directory yields no paths.
func List(archiveDir string) ([]string, error) {
	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, extZstd) || strings.HasSuffix(name, extPlain) {
			paths = append(paths, filepath.Join(archiveDir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
