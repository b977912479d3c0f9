package kindprobe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/indexd/indextree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.pdf")
	require.Nil(t, os.WriteFile(file, []byte("x"), 0o600))

	p := New(4)
	kind, err := p.Probe(indextree.MustParsePath(file))
	require.Nil(t, err)
	assert.Equal(t, indextree.KindFile, kind)
}

func TestProbeDirectory(t *testing.T) {
	dir := t.TempDir()
	p := New(4)
	kind, err := p.Probe(indextree.MustParsePath(dir))
	require.Nil(t, err)
	assert.Equal(t, indextree.KindDirectory, kind)
}

func TestProbeNonFileScheme(t *testing.T) {
	p := New(4)
	_, err := p.Probe(indextree.MustParsePath("recoll:///home/user"))
	assert.NotNil(t, err)
}

func TestProbeAllBounded(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	var paths []indextree.Path
	for i := 0; i < 20; i++ {
		name := filepath.Join(dir, "file")
		if i%2 == 0 {
			name = filepath.Join(dir, "subdir")
			_ = os.Mkdir(name, 0o700)
		} else {
			name = filepath.Join(dir, "f")
			_ = os.WriteFile(name, []byte("x"), 0o600)
		}
		paths = append(paths, indextree.MustParsePath(name))
	}

	p := New(2)
	results, err := p.ProbeAll(context.Background(), paths)
	require.Nil(t, err)
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.True(t, r.Path.Equal(paths[i]))
		assert.NotEqual(t, indextree.KindUnknown, r.Kind)
	}
}

func TestProbeAllPropagatesError(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	paths := []indextree.Path{
		indextree.MustParsePath(filepath.Join(dir, "does-not-exist")),
	}
	p := New(2)
	_, err := p.ProbeAll(context.Background(), paths)
	assert.NotNil(t, err)
}
