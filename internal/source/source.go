// Package source expands command-line paths into the files to process.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles indicates no file matched the given paths.
var ErrNoFiles = errors.New("no matching files")

// Matcher decides which files under a directory are processed.
type Matcher struct {
	include []string
	exclude []string
}

// NewMatcher creates a matcher. Patterns use doublestar syntax and are
// matched against slash-separated paths relative to the walked directory.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid pattern %q", p)
		}
	}
	return &Matcher{include: include, exclude: exclude}, nil
}

// Included reports whether rel matches an include pattern and no exclude
// pattern.
func (m *Matcher) Included(rel string) bool {
	rel = filepath.ToSlash(rel)
	if m.Excluded(rel) {
		return false
	}
	for _, p := range m.include {
		if ok, err := doublestar.Match(p, rel); ok && err == nil {
			return true
		}
	}
	return false
}

// Excluded reports whether rel matches an exclude pattern. A directory is
// also excluded when rel+"/" followed by anything would be.
func (m *Matcher) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range m.exclude {
		if ok, err := doublestar.Match(p, rel); ok && err == nil {
			return true
		}
		if ok, err := doublestar.Match(p, rel+"/"); ok && err == nil {
			return true
		}
	}
	return false
}

// IsGlob reports whether arg contains glob metacharacters.
func IsGlob(arg string) bool {
	return strings.ContainsAny(arg, "*?{}[]")
}

// Expand resolves args into a sorted, de-duplicated list of files.
// Plain files are kept even when they match no include pattern, directories
// are walked through m, and glob arguments are expanded.
func Expand(args []string, m *Matcher) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if IsGlob(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			for _, match := range matches {
				if !m.Excluded(match) {
					add(match)
				}
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if rel != "." && m.Excluded(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if m.Included(rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}
