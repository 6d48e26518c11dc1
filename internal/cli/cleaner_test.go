package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bisgardo/reification/internal/templates"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	generated := templates.GeneratedHeader + "\n\npackage a;\n"
	writeInputs(t, root, map[string]string{
		"a/Box$Widget.java":       generated,
		"a/deep/Repo$Widget.java": generated,
		"a/Handwritten.java":      "package a;\n",
		"a/Box.rdecl":             generated,
		"a/NotFirstLine.java":     "package a;\n" + templates.GeneratedHeader + "\n",
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{filepath.Join(root, "a") + "/..."})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a", "Box$Widget.java"),
		filepath.Join(root, "a", "deep", "Repo$Widget.java"),
	}, removed)

	for _, kept := range []string{"Handwritten.java", "Box.rdecl", "NotFirstLine.java"} {
		_, err := os.Stat(filepath.Join(root, "a", kept))
		assert.NoError(t, err, kept)
	}
	_, err = os.Stat(filepath.Join(root, "a", "Box$Widget.java"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleaner_NonRecursive(t *testing.T) {
	root := t.TempDir()
	generated := templates.GeneratedHeader + "\n"
	writeInputs(t, root, map[string]string{
		"Top$Widget.java":        generated,
		"sub/Nested$Widget.java": generated,
	})

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "Top$Widget.java")}, removed)
}
