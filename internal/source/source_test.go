package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTree writes empty files under a temporary directory and returns it.
func createTree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("class X {}\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func rel(t *testing.T, dir string, files []string) string {
	t.Helper()
	out := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return strings.Join(out, ",")
}

func TestMatcher(t *testing.T) {
	m, err := NewMatcher([]string{"**/*.java"}, []string{"**/build/**"})
	if err != nil {
		t.Fatalf("NewMatcher failed: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"A.java", true},
		{"src/pkg/B.java", true},
		{"README.md", false},
		{"build/Gen.java", false},
		{"src/build/Gen.java", false},
	}
	for _, tt := range tests {
		if got := m.Included(tt.path); got != tt.want {
			t.Errorf("Included(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if !m.Excluded("build") {
		t.Error("expected build directory to be excluded")
	}
}

func TestNewMatcherInvalidPattern(t *testing.T) {
	if _, err := NewMatcher([]string{"[unclosed"}, nil); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestExpandDirectory(t *testing.T) {
	dir := createTree(t, "A.java", "src/B.java", "src/notes.txt", "build/C.java")
	m, _ := NewMatcher([]string{"**/*.java"}, []string{"build/**"})

	files, err := Expand([]string{dir}, m)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got := rel(t, dir, files); got != "A.java,src/B.java" {
		t.Errorf("Expand = %s, want A.java,src/B.java", got)
	}
}

func TestExpandPlainFileAndDedup(t *testing.T) {
	dir := createTree(t, "notes.txt", "A.java")
	m, _ := NewMatcher([]string{"**/*.java"}, nil)

	notes := filepath.Join(dir, "notes.txt")
	files, err := Expand([]string{notes, dir, filepath.Join(dir, "A.java")}, m)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got := rel(t, dir, files); got != "A.java,notes.txt" {
		t.Errorf("Expand = %s, want A.java,notes.txt", got)
	}
}

func TestExpandGlob(t *testing.T) {
	dir := createTree(t, "a/One.java", "a/b/Two.java", "a/Three.go")
	m, _ := NewMatcher([]string{"**/*"}, nil)

	files, err := Expand([]string{filepath.Join(dir, "**", "*.java")}, m)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if got := rel(t, dir, files); got != "a/One.java,a/b/Two.java" {
		t.Errorf("Expand = %s", got)
	}
}

func TestExpandNoFiles(t *testing.T) {
	dir := createTree(t, "notes.txt")
	m, _ := NewMatcher([]string{"**/*.java"}, nil)

	if _, err := Expand([]string{dir}, m); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestExpandMissingPath(t *testing.T) {
	m, _ := NewMatcher([]string{"**/*.java"}, nil)
	if _, err := Expand([]string{filepath.Join(t.TempDir(), "missing")}, m); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestIsGlob(t *testing.T) {
	if !IsGlob("src/**/*.java") {
		t.Error("expected glob")
	}
	if IsGlob("src/A.java") {
		t.Error("expected plain path")
	}
}
