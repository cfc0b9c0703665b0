// Package fileutil locates suite definition files on disk.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// suiteExtensions are the file extensions recognized as suite files.
var suiteExtensions = []string{".yaml", ".yml"}

// isSuiteFile reports whether the filename carries a suite file extension.
func isSuiteFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range suiteExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// ExpandPaths resolves each argument to one or more suite files. A file
// argument is returned as-is; a directory argument contributes every suite
// file directly inside it, sorted alphabetically for deterministic runs.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		found, err := scanDir(path)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no suite files (%s) in directory %s", strings.Join(suiteExtensions, ", "), path)
		}
		files = append(files, found...)
	}
	return files, nil
}

// scanDir lists the suite files directly inside dir, sorted.
// Hidden files and subdirectories are skipped.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !isSuiteFile(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
