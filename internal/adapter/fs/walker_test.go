package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkerIncludesExcludes(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"a/A.java",
		"a/AAccessible.java",
		"a/b/B.java",
		"a/notes.txt",
		"target/gen/G.java",
	}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	w := NewWalker([]string{"**/*.java"}, []string{"**/*Accessible.java", "target/**"})
	infos, err := w.Walk(root)
	require.NoError(t, err)

	var rel []string
	for _, info := range infos {
		rel = append(rel, info.RelPath)
		assert.Equal(t, int64(1), info.Size)
	}
	sort.Strings(rel)
	assert.Equal(t, []string{"a/A.java", "a/b/B.java"}, rel)
}

func TestWalkerDefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.txt"), nil, 0o644))

	infos, err := NewWalker(nil, nil).Walk(root)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "x.txt", infos[0].RelPath)
}
