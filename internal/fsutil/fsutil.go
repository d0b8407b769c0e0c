// Package fsutil provides file system utility functions.
package fsutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// tempPrefixes are the stems spreadsheet editors leave behind for files
// that are currently open. They are never valid config sources.
var tempPrefixes = []string{"~$", ".~"}

// IsTempFile reports whether name looks like an editor scratch file.
func IsTempFile(name string) bool {
	for _, p := range tempPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// FindFilesByExtension lists the files directly inside rootPath ending
// with the specified extension, skipping editor temp files. Subdirectories
// are not scanned: config names map one-to-one onto flat file names, so a
// nested file could never be resolved back to a source or artifact path.
// Results are sorted by name. A missing root is not an error; it simply
// yields no files.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || IsTempFile(entry.Name()) {
			continue
		}
		if strings.HasSuffix(entry.Name(), extension) {
			files = append(files, filepath.Join(rootPath, entry.Name()))
		}
	}
	return files, nil
}

// Mtime returns the modification time of path in Unix nanoseconds, or 0
// when the file does not exist. Staleness comparisons treat 0 as "missing".
func Mtime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// WriteFileIfChanged writes data to path only when the current contents
// differ, creating parent directories as needed. It reports whether a write
// happened. Skipping the write when nothing changed keeps the file's mtime
// stable, which the staleness tracker relies on.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
