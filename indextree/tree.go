package indextree

import (
	"fmt"
	"io"
	"sort"

	log "github.com/sirupsen/logrus"
)

// Tree is a rooted containment forest of indexing roots. Its single top
// node is the master root (spec.md §3), fixed at construction. Every
// other node's path is strictly inside its parent's path, children are
// unordered, and the tree encodes the containment partial order exactly
// (spec.md's invariants 1-5).
//
// Tree is a single-threaded cooperative data structure: all mutating and
// query operations must be serialized by the caller when used across
// goroutines. No internal locks are used, matching spec.md §5 - adding
// them would mask ownership bugs the caller is responsible for avoiding.
type Tree struct {
	root   *node
	Events Events
}

// TreeOption configures NewTree, following the functional-option idiom of
// internal/tree/treeoption.go (WithMutable, WithRevision, WithRoot).
type TreeOption func(*Tree)

// WithMasterRoot sets the tree's master root to p instead of the default
// file:///.
func WithMasterRoot(p Path) TreeOption {
	return func(t *Tree) {
		t.root.path = p
	}
}

// NewTree constructs a Tree with a shallow master root, file:/// by
// default.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		root: &node{path: MustParsePath("file:///"), shallow: true},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetMasterRoot returns the path that represents the master root
// location for all indexing locations - the implicit top of the tree.
func (t *Tree) GetMasterRoot() Path {
	return t.root.path
}

func (t *Tree) findExact(p Path) *node {
	return findExact(t.root, p)
}

func findExact(n *node, p Path) *node {
	if n.path.Equal(p) {
		return n
	}
	for _, c := range n.children {
		if c.path.Equal(p) || c.path.Contains(p) {
			return findExact(c, p)
		}
	}
	return nil
}

// findInsertionParent locates the deepest existing node whose path is a
// non-strict prefix of p - the parent spec.md's add protocol step 2
// describes. It always returns a node (the master root, at worst).
func (t *Tree) findInsertionParent(p Path) *node {
	cur := t.root
	for {
		var next *node
		for _, c := range cur.children {
			if c.path.Contains(p) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// findRootNode returns the deepest non-shallow node whose path equals or
// strictly contains p, or nil.
func (t *Tree) findRootNode(p Path) *node {
	cur := t.root
	var best *node
	if !cur.shallow && (cur.path.Equal(p) || cur.path.Contains(p)) {
		best = cur
	}
	for {
		var next *node
		for _, c := range cur.children {
			if c.path.Equal(p) || c.path.Contains(p) {
				next = c
				break
			}
		}
		if next == nil {
			return best
		}
		cur = next
		if !cur.shallow {
			best = cur
		}
	}
}

// Add registers owner on the node for path with flags, following spec.md
// §4.1's add protocol: if a node already exists at path, owner is merged
// into its owner list and flags are recomputed; otherwise a new node is
// created under the deepest existing prefix, stealing from that parent
// any children whose path now lies strictly inside the new node.
func (t *Tree) Add(path Path, flags DirFlags, owner string) {
	if path.IsZero() {
		panic("indextree: Add called with zero Path")
	}
	if owner == "" {
		panic("indextree: Add called with empty owner")
	}

	if existing := t.findExact(path); existing != nil {
		existing.shallow = false
		changed := existing.addOwner(owner, flags)
		if changed {
			flagsChanged := existing.recomputeFlags()
			if flagsChanged {
				log.WithFields(log.Fields{
					"path":  path.String(),
					"owner": owner,
					"flags": existing.flags.String(),
				}).Info("updating flags for directory")
				t.Events.emit(Event{Kind: Updated, Path: path})
			}
		}
		return
	}

	parent := t.findInsertionParent(path)
	n := &node{path: path, owners: []Owner{{Name: owner, Flags: flags}}}
	n.flags = deriveFlags(n.owners)
	reparentChildrenOnto(parent, n)
	n.attachTo(parent)
	t.Events.emit(Event{Kind: Added, Path: path})
}

// Remove removes owner from the node at path. If no owners remain, the
// node is torn down: its children are reparented to its former parent and
// a Removed event fires, unless the node is the master root, in which
// case it is merely demoted back to shallow (spec.md §4.1 step 5) and no
// event fires. An unregistered owner is logged as a warning and is
// otherwise a no-op; an unregistered path is a silent no-op (callers may
// issue speculative removes).
func (t *Tree) Remove(path Path, owner string) {
	if path.IsZero() {
		panic("indextree: Remove called with zero Path")
	}
	if owner == "" {
		panic("indextree: Remove called with empty owner")
	}

	n := t.findExact(path)
	if n == nil {
		log.WithFields(log.Fields{"path": path.String(), "err": ErrNotExist}).Debug("remove: ignoring")
		return
	}
	if !n.removeOwner(owner) {
		log.WithFields(log.Fields{"path": path.String(), "owner": owner, "err": ErrUnknownOwner}).Warn("remove: ignoring")
		return
	}

	if len(n.owners) > 0 {
		if n.recomputeFlags() {
			log.WithFields(log.Fields{
				"path":  path.String(),
				"owner": owner,
				"flags": n.flags.String(),
			}).Info("updating flags for directory")
			t.Events.emit(Event{Kind: Updated, Path: path})
		}
		return
	}

	if n == t.root {
		n.shallow = true
		return
	}

	parent := n.parent
	n.detachFromParent()
	reparentChildrenOnto(n, parent)
	t.Events.emit(Event{Kind: Removed, Path: path})
}

// IsRoot reports whether a node - shallow or not - exists at exactly
// path.
func (t *Tree) IsRoot(path Path) bool {
	return t.findExact(path) != nil
}

// GetRoot returns the nearest non-shallow ancestor-or-equal node's path
// and derived flags.
func (t *Tree) GetRoot(path Path) (root Path, flags DirFlags, ok bool) {
	n := t.findRootNode(path)
	if n == nil {
		return Path{}, 0, false
	}
	return n.path, n.flags, true
}

// RootInfo describes one non-shallow node returned by ListRoots.
type RootInfo struct {
	Path  Path
	Flags DirFlags
}

// ListRoots enumerates all non-shallow nodes in the tree, ordered by
// path for deterministic output.
func (t *Tree) ListRoots() []RootInfo {
	var out []RootInfo
	var walk func(*node)
	walk = func(n *node) {
		if !n.shallow {
			out = append(out, RootInfo{n.path, n.flags})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
	sort.Slice(out, func(i, j int) bool { return out[i].Path.String() < out[j].Path.String() })
	return out
}

// Depth returns the number of ancestors between the master root and the
// node at path (0 for the master root itself), or false if no node
// exists at that exact path. It is a diagnostic, not part of spec.md's
// required query set, in the spirit of internal/tree/diagnostics.go.
func (t *Tree) Depth(path Path) (depth int, ok bool) {
	n := t.findExact(path)
	if n == nil {
		return 0, false
	}
	for cur := n; cur.parent != nil; cur = cur.parent {
		depth++
	}
	return depth, true
}

// Dump writes a pre-order listing of every node in the tree to w: depth,
// path, owner names, derived flags and the shallow bit. It is a
// diagnostic aid, grounded on internal/tree/diagnostics.go's DumpNodes.
func (t *Tree) Dump(w io.Writer) error {
	var werr error
	var walk func(*node, int)
	walk = func(n *node, depth int) {
		if werr != nil {
			return
		}
		names := make([]string, len(n.owners))
		for i, o := range n.owners {
			names[i] = o.Name
		}
		_, werr = fmt.Fprintf(w, "%*s%s flags=%s shallow=%v owners=%v\n",
			depth*2, "", n.path.String(), n.flags, n.shallow, names)
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	walk(t.root, 0)
	return werr
}
