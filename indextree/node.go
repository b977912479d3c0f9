package indextree

// node is one node of the root tree: a path, the owners that keep it
// alive, its derived flags, a back-pointer to its parent, and its
// children. Unlike internal/tree.Node (which this is grounded on), a node
// here never carries file content or block pointers - the engine is
// purely a decision layer.
type node struct {
	path   Path
	owners []Owner
	flags  DirFlags

	// shallow marks a structural placeholder that is not itself a real
	// indexing root. Only the forest's master root is ever shallow: any
	// other node whose last owner departs is removed from the tree.
	shallow bool

	parent   *node
	children []*node
}

// findOwner returns the index of the owner with the given name, or -1.
func (n *node) findOwner(name string) int {
	for i := range n.owners {
		if n.owners[i].Name == name {
			return i
		}
	}
	return -1
}

// addOwner appends or replaces an owner per spec.md's re-add rule: an
// identical (name, flags) pair is a no-op, a same-name re-add with
// different flags replaces the owner's flags. Returns true if the node's
// owner set actually changed.
func (n *node) addOwner(name string, flags DirFlags) (changed bool) {
	if i := n.findOwner(name); i >= 0 {
		if n.owners[i].Flags == flags {
			return false
		}
		n.owners[i].Flags = flags
		return true
	}
	n.owners = append(n.owners, Owner{Name: name, Flags: flags})
	return true
}

// removeOwner removes the owner with the given name. Returns false if no
// such owner was found.
func (n *node) removeOwner(name string) bool {
	i := n.findOwner(name)
	if i < 0 {
		return false
	}
	n.owners = append(n.owners[:i], n.owners[i+1:]...)
	return true
}

// recomputeFlags recomputes n.flags from n.owners, returning whether the
// value changed.
func (n *node) recomputeFlags() (changed bool) {
	newFlags := deriveFlags(n.owners)
	changed = newFlags != n.flags
	n.flags = newFlags
	return changed
}

// detachFromParent removes n from its parent's children slice. It is a
// no-op if n has no parent (the master root).
func (n *node) detachFromParent() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// attachTo makes n a child of parent.
func (n *node) attachTo(parent *node) {
	n.parent = parent
	parent.children = append(parent.children, n)
}

// reparentChildrenOnto moves every child of from whose path lies strictly
// inside newParent.path from from to newParent. Used both when inserting a
// node (children of the insertion parent that belong under the new node)
// and when removing a node (children reparented to the removed node's
// former parent).
func reparentChildrenOnto(from, newParent *node) {
	var kept []*node
	for _, c := range from.children {
		if newParent.path.Contains(c.path) {
			c.parent = newParent
			newParent.children = append(newParent.children, c)
		} else {
			kept = append(kept, c)
		}
	}
	from.children = kept
}
