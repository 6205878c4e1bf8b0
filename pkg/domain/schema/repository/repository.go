// Package repository bundles the database schema shipped with skein.
//
// The schema repository is a directory tree of numbered version directories,
// each holding .sql files. It is embedded into binaries so that servers and
// the schema upgrader can set up a database without carrying files around.
package repository

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed 1
var repository embed.FS

// FS returns the embedded schema repository.
func FS() fs.FS {
	return repository
}

// Export writes the embedded schema repository into dir.
//
// The resulting directory can be passed as a schema repository path.
func Export(dir string) error {
	return fs.WalkDir(repository, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		dest := filepath.Join(dir, path)
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}

		content, err := fs.ReadFile(repository, path)
		if err != nil {
			return err
		}
		return os.WriteFile(dest, content, 0644)
	})
}
