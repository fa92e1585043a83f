// Package archive gives access to zipped project exports.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

var ErrNotFound = errors.New("file not found in archive")

// WalkFunc is called for each file in archive visited by Walk. If an error
// is returned, processing stops.
type WalkFunc func(file *zip.File) error

// Archive is opened zip export.
type Archive struct {
	name string
	rc   *zip.ReadCloser
}

func Open(name string) (*Archive, error) {
	rc, err := zip.OpenReader(name)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, err
	}
	// insecure names are reported by Walk
	return &Archive{name: name, rc: rc}, nil
}

func (a *Archive) Name() string {
	return a.name
}

func (a *Archive) Close() error {
	return a.rc.Close()
}

// Walk visits all regular files whose names start with prefix. Archives
// with absolute or traversing ("..") entry names are rejected entirely.
func (a *Archive) Walk(prefix string, walkFn WalkFunc) error {
	for _, f := range a.rc.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Locate finds file with given base name closest to archive root. Exports
// are often zipped together with enclosing directory.
func (a *Archive) Locate(base string) (string, error) {
	found, depth := "", -1
	err := a.Walk("", func(f *zip.File) error {
		if path.Base(f.Name) != base {
			return nil
		}
		if d := strings.Count(f.Name, "/"); depth < 0 || d < depth {
			found, depth = f.Name, d
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if depth < 0 {
		return "", fmt.Errorf("%s: %w", base, ErrNotFound)
	}
	return found, nil
}

func (a *Archive) ReadFile(name string) ([]byte, error) {
	f, err := a.rc.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// FS returns file system rooted at dir inside archive.
func (a *Archive) FS(dir string) (fs.FS, error) {
	if dir == "" || dir == "." {
		return a.rc, nil
	}
	return fs.Sub(a.rc, dir)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
