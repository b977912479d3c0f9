package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indexd/indextree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.Nil(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o700))
	require.Nil(t, os.MkdirAll(filepath.Join(dir, "build"), 0o700))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "docs", "report.pdf"), []byte("x"), 0o600))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "build", "main.o"), []byte("x"), 0o600))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o600))
	return dir
}

func TestWalkVisitsIndexableEntries(t *testing.T) {
	dir := makeTree(t)
	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	rootPath := indextree.MustParsePath(dir)
	tree.Add(rootPath, indextree.Recurse, "config")
	engine := indextree.NewEngine(tree, filters)

	var visited []string
	w := New(engine)
	err := w.Walk(rootPath, func(p indextree.Path, kind indextree.FileKind) error {
		fsPath, _ := p.FilesystemPath()
		rel, _ := filepath.Rel(dir, fsPath)
		visited = append(visited, rel)
		return nil
	})
	require.Nil(t, err)

	assert.Contains(t, visited, "docs/report.pdf")
	assert.Contains(t, visited, "build/main.o")
	assert.Contains(t, visited, "README")
}

func TestWalkSkipsNonIndexableDirectory(t *testing.T) {
	dir := makeTree(t)
	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	rootPath := indextree.MustParsePath(dir)
	tree.Add(rootPath, indextree.Recurse, "config")
	require.Nil(t, filters.AddFilter(indextree.FilterDirectory, "build"))
	engine := indextree.NewEngine(tree, filters)

	var visited []string
	w := New(engine)
	err := w.Walk(rootPath, func(p indextree.Path, kind indextree.FileKind) error {
		fsPath, _ := p.FilesystemPath()
		rel, _ := filepath.Rel(dir, fsPath)
		visited = append(visited, rel)
		return nil
	})
	require.Nil(t, err)

	assert.NotContains(t, visited, "build")
	assert.NotContains(t, visited, "build/main.o")
	assert.Contains(t, visited, "docs/report.pdf")
}

func TestWalkHonorsAdHocExcludes(t *testing.T) {
	dir := makeTree(t)
	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	rootPath := indextree.MustParsePath(dir)
	tree.Add(rootPath, indextree.Recurse, "config")
	engine := indextree.NewEngine(tree, filters)

	var visited []string
	w := New(engine, "docs")
	err := w.Walk(rootPath, func(p indextree.Path, kind indextree.FileKind) error {
		fsPath, _ := p.FilesystemPath()
		rel, _ := filepath.Rel(dir, fsPath)
		visited = append(visited, rel)
		return nil
	})
	require.Nil(t, err)

	assert.NotContains(t, visited, "docs/report.pdf")
	assert.Contains(t, visited, "build/main.o")
}

func TestWalkNonRecursiveOmitsGrandchildren(t *testing.T) {
	dir := makeTree(t)
	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	rootPath := indextree.MustParsePath(dir)
	tree.Add(rootPath, 0, "config") // not Recurse
	engine := indextree.NewEngine(tree, filters)

	var visited []string
	w := New(engine)
	err := w.Walk(rootPath, func(p indextree.Path, kind indextree.FileKind) error {
		fsPath, _ := p.FilesystemPath()
		rel, _ := filepath.Rel(dir, fsPath)
		visited = append(visited, rel)
		return nil
	})
	require.Nil(t, err)

	assert.Contains(t, visited, "README")
	assert.NotContains(t, visited, "docs/report.pdf")
}
