package io

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirCopy(t *testing.T) {

	t.Run("it copies a directory tree", func(t *testing.T) {
		src := t.TempDir()
		if err := os.MkdirAll(filepath.Join(src, "1"), 0755); err != nil {
			t.Fatal("fail to create source dir.", err)
		}
		if err := os.WriteFile(
			filepath.Join(src, "1", "00.create.sql"), []byte("CREATE TABLE t ();"), 0644,
		); err != nil {
			t.Fatal("fail to create source file.", err)
		}
		if err := os.WriteFile(
			filepath.Join(src, "readme.txt"), []byte("schema"), 0644,
		); err != nil {
			t.Fatal("fail to create source file.", err)
		}

		dest := filepath.Join(t.TempDir(), "copied")
		if err := DirCopy(src, dest); err != nil {
			t.Fatal(err)
		}

		for name, content := range map[string]string{
			filepath.Join("1", "00.create.sql"): "CREATE TABLE t ();",
			"readme.txt":                        "schema",
		} {
			actual, err := os.ReadFile(filepath.Join(dest, name))
			if err != nil {
				t.Fatal(err)
			}
			if string(actual) != content {
				t.Errorf(
					"%s: (actual, expected) = (%s, %s)",
					name, actual, content,
				)
			}
		}
	})

	t.Run("it overwrites files already in dest", func(t *testing.T) {
		src := t.TempDir()
		if err := os.WriteFile(
			filepath.Join(src, "readme.txt"), []byte("new"), 0644,
		); err != nil {
			t.Fatal("fail to create source file.", err)
		}

		dest := t.TempDir()
		if err := os.WriteFile(
			filepath.Join(dest, "readme.txt"), []byte("old"), 0644,
		); err != nil {
			t.Fatal("fail to create dest file.", err)
		}

		if err := DirCopy(src, dest); err != nil {
			t.Fatal(err)
		}

		actual, err := os.ReadFile(filepath.Join(dest, "readme.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if string(actual) != "new" {
			t.Errorf("readme.txt: (actual, expected) = (%s, new)", actual)
		}
	})

	t.Run("it causes error when src does not exist", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "no-such-dir")
		dest := t.TempDir()

		if err := DirCopy(src, dest); err == nil {
			t.Error("DirCopy does not cause error")
		}
	})
}
