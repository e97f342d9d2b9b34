package cli

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	wserrors "github.com/toyz/wsgen/internal/errors"
	"github.com/toyz/wsgen/internal/generator"
)

// Cleaner removes files produced by the generator
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes generated Go files from dirs. A dir ending in "/..." is
// walked recursively. Files are recognized by their generated-code header,
// not by name. The removed paths are returned.
func (c *Cleaner) Clean(dirs []string) ([]string, error) {
	var removed []string
	for _, dir := range dirs {
		recursive := false
		if dir == "..." || strings.HasSuffix(dir, "/...") {
			recursive = true
			dir = strings.TrimSuffix(strings.TrimSuffix(dir, "..."), "/")
			if dir == "" {
				dir = "."
			}
		}

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				if path != dir && (!recursive || skipDir(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") {
				return nil
			}
			generated, err := isGenerated(path)
			if err != nil || !generated {
				return err
			}
			if err := os.Remove(path); err != nil {
				return wserrors.WrapFileSystemError("remove", path, err)
			}
			removed = append(removed, path)
			return nil
		})
		if err != nil {
			return removed, wserrors.WrapFileSystemError("clean", dir, err)
		}
	}
	return removed, nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// isGenerated reports whether the first line of the file is the generator header
func isGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, wserrors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == "// "+generator.Header, nil
}
