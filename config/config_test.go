package config

import (
	"strings"
	"testing"

	"github.com/indexd/indextree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesDirectives(t *testing.T) {
	input := `
# desktop-search roots
root /home/user monitor,recurse
root /home/user/.cache ignore
filter-file *.o
filter-directory node_modules
filter-parent-directory .nomedia
default-policy file deny
filter-hidden true
`
	c, err := load(strings.NewReader(input))
	require.Nil(t, err)

	require.Len(t, c.Roots, 2)
	assert.Equal(t, "/home/user", c.Roots[0].Path)
	assert.Equal(t, indextree.Monitor|indextree.Recurse, c.Roots[0].Flags)
	assert.Equal(t, defaultOwner, c.Roots[0].Owner)
	assert.Equal(t, indextree.Ignore, c.Roots[1].Flags)

	require.Len(t, c.Filters, 3)
	assert.Equal(t, indextree.FilterFile, c.Filters[0].Kind)
	assert.Equal(t, "*.o", c.Filters[0].Glob)

	require.Len(t, c.Policies, 1)
	assert.Equal(t, indextree.FilterFile, c.Policies[0].Kind)
	assert.Equal(t, indextree.Deny, c.Policies[0].Policy)

	assert.True(t, c.FilterHidden)
}

func TestLoadRootWithExplicitOwner(t *testing.T) {
	c, err := load(strings.NewReader("root /media/usb monitor,recurse removable-media\n"))
	require.Nil(t, err)
	require.Len(t, c.Roots, 1)
	assert.Equal(t, "removable-media", c.Roots[0].Owner)
}

func TestLoadRootWithNoFlags(t *testing.T) {
	c, err := load(strings.NewReader("root /home/user -\n"))
	require.Nil(t, err)
	require.Len(t, c.Roots, 1)
	assert.Equal(t, indextree.DirFlags(0), c.Roots[0].Flags)
}

func TestLoadRejectsUnknownDirective(t *testing.T) {
	_, err := load(strings.NewReader("bogus thing\n"))
	assert.NotNil(t, err)
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	_, err := load(strings.NewReader("root /home/user nonsense\n"))
	assert.NotNil(t, err)
}

func TestLoadIgnoresBlankAndCommentLines(t *testing.T) {
	c, err := load(strings.NewReader("\n# comment\n\nroot /home/user monitor\n"))
	require.Nil(t, err)
	assert.Len(t, c.Roots, 1)
}

func TestApplyWiresRootsAndFilters(t *testing.T) {
	c, err := load(strings.NewReader(`root /home/user monitor,recurse
filter-file *.o
default-policy file deny
filter-hidden true
`))
	require.Nil(t, err)

	tree := indextree.NewTree()
	filters := indextree.NewFilters()
	engine := indextree.NewEngine(tree, filters)

	require.Nil(t, Apply(c, tree, filters, engine))

	assert.True(t, tree.IsRoot(indextree.MustParsePath("/home/user")))
	assert.True(t, engine.FilterHidden())
	assert.Equal(t, indextree.Deny, filters.DefaultPolicy(indextree.FilterFile))
	assert.True(t, filters.Matches(indextree.FilterFile, indextree.MustParsePath("/home/user/main.o")))
}
