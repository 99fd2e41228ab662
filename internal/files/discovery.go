package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Source lists and opens candidate workbooks
type Source interface {
	// List returns the regular files directly under the source location
	List(ctx context.Context) ([]FileInfo, error)
	// Open returns a reader for a listed file
	Open(ctx context.Context, file FileInfo) (io.ReadCloser, error)
	// Location describes where the source reads from
	Location() string
	Close() error
}

// LocalSource reads workbooks from a directory
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source over dir
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// List returns the regular files in the directory. Subdirectories are skipped.
func (s *LocalSource) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(s.dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Open opens a listed file
func (s *LocalSource) Open(_ context.Context, file FileInfo) (io.ReadCloser, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	return f, nil
}

// Location returns the directory
func (s *LocalSource) Location() string {
	return s.dir
}

// Close is a no-op for local directories
func (s *LocalSource) Close() error {
	return nil
}

// Select keeps files whose name ends with ext, sorts them by name ascending and
// truncates to max entries. max <= 0 keeps all matches.
func Select(files []FileInfo, ext string, max int) []FileInfo {
	selected := make([]FileInfo, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.Name, ext) {
			selected = append(selected, f)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Name < selected[j].Name
	})

	if max > 0 && len(selected) > max {
		selected = selected[:max]
	}
	return selected
}

// DeviceName returns the part of the file name before its first dot, so
// "hive.2024.xlsx" labels device "hive". A name starting with a dot keeps
// everything up to its last extension.
func DeviceName(name string) string {
	base := filepath.Base(name)
	if stem, _, _ := strings.Cut(base, "."); stem != "" {
		return stem
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
