package io

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirCopy copies the directory tree rooted at src into dest.
//
// Directories are created as needed. Files already in dest are overwritten.
func DirCopy(src string, dest string) error {
	return fs.WalkDir(os.DirFS(src), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dest, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		content, err := os.ReadFile(filepath.Join(src, path))
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0644)
	})
}
