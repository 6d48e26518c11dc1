package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct {
		pattern   string
		dir       string
		recursive bool
	}{
		{"./...", ".", true},
		{"...", ".", true},
		{"src/...", "src", true},
		{"/...", ".", true},
		{"src", "src", false},
		{".", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			dir, recursive := SplitPattern(tt.pattern)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.recursive, recursive)
		})
	}
}

func TestFileProcessor_ScanFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a/Box.rdecl":             "",
		"a/notes.txt":             "",
		"a/b/Widget.rdecl":        "",
		"a/b/graph.snapshot.yaml": "",
		"a/.hidden/Skip.rdecl":    "",
		"a/testdata/Skip.rdecl":   "",
	})

	fp := NewFileProcessor()
	filter := SuffixFilter(".rdecl", ".snapshot.yaml")

	flat, err := fp.ScanFiles([]string{filepath.Join(root, "a")}, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "Box.rdecl")}, flat)

	deep, err := fp.ScanFiles([]string{filepath.Join(root, "a") + "/...", filepath.Join(root, "a")}, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a", "Box.rdecl"),
		filepath.Join(root, "a", "b", "Widget.rdecl"),
		filepath.Join(root, "a", "b", "graph.snapshot.yaml"),
	}, deep)
}

func TestFileProcessor_ScanFilesMissingDirectory(t *testing.T) {
	fp := NewFileProcessor()

	_, err := fp.ScanFiles([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	assert.Error(t, err)
}

func TestFileProcessor_RemoveFiles(t *testing.T) {
	root := t.TempDir()
	const header = "// generated"
	writeTree(t, root, map[string]string{
		"out/a/Box$String.java": header + "\nclass X {}\n",
		"out/a/Hand.java":       "// hand written\n",
		"out/a/Empty.java":      "",
	})

	fp := NewFileProcessor()
	removed, err := fp.RemoveFiles([]string{filepath.Join(root, "out") + "/..."}, HeaderFilter(header, ".java"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "out", "a", "Box$String.java")}, removed)

	assert.FileExists(t, filepath.Join(root, "out", "a", "Hand.java"))
	assert.FileExists(t, filepath.Join(root, "out", "a", "Empty.java"))
	assert.NoFileExists(t, filepath.Join(root, "out", "a", "Box$String.java"))
}

func TestFileProcessor_ReadFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Box.rdecl": "class Box {}"})

	fp := NewFileProcessor()
	path := filepath.Join(root, "Box.rdecl")
	contents, err := fp.ReadFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{path: "class Box {}"}, contents)
}
