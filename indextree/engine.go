package indextree

// FileKind is the caller's best knowledge of what kind of entry a Path
// names at the time it asks Engine.IsIndexable.
type FileKind int

const (
	// KindUnknown means the caller has not determined whether the path
	// is a file or a directory.
	KindUnknown FileKind = iota
	// KindFile means the path names a regular file.
	KindFile
	// KindDirectory means the path names a directory.
	KindDirectory
)

// String implements fmt.Stringer.
func (k FileKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// KindProbe resolves the kind of a path that the engine itself needs to
// know but the caller left as KindUnknown. It is the collaborator spec.md
// §4.3 step 4 calls "the path-kind probe"; package kindprobe provides a
// concrete implementation. The engine never calls the filesystem
// directly.
type KindProbe func(Path) (FileKind, error)

// Engine is the decision engine of spec.md §4.3: it combines a Tree, a
// Filters set and the hidden-filter toggle to answer the handful of
// queries the crawler and the file-system monitor need.
type Engine struct {
	Tree    *Tree
	Filters *Filters

	filterHidden bool
	probe        KindProbe
}

// EngineOption configures NewEngine.
type EngineOption func(*Engine)

// WithKindProbe supplies the collaborator used to resolve KindUnknown
// under a NoStat root (spec.md §4.3 step 4). Without one, such paths are
// treated as still-unknown and kind-based filters are skipped for them.
func WithKindProbe(probe KindProbe) EngineOption {
	return func(e *Engine) { e.probe = probe }
}

// WithFilterHidden sets the initial hidden-filter toggle.
func WithFilterHidden(hidden bool) EngineOption {
	return func(e *Engine) { e.filterHidden = hidden }
}

// NewEngine constructs an Engine over tree and filters. Both must be
// non-nil.
func NewEngine(tree *Tree, filters *Filters, opts ...EngineOption) *Engine {
	if tree == nil || filters == nil {
		panic("indextree: NewEngine requires a non-nil Tree and Filters")
	}
	e := &Engine{Tree: tree, Filters: filters}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetFilterHidden sets the hidden-filter toggle: when true, paths whose
// basename begins with "." are non-indexable regardless of other rules,
// unless they are themselves an indexing root.
func (e *Engine) SetFilterHidden(hidden bool) { e.filterHidden = hidden }

// FilterHidden reports the current hidden-filter toggle.
func (e *Engine) FilterHidden() bool { return e.filterHidden }

// IsRoot reports whether a node - shallow or not - exists at exactly
// path.
func (e *Engine) IsRoot(path Path) bool { return e.Tree.IsRoot(path) }

// GetRoot returns the nearest non-shallow ancestor-or-equal node's path
// and derived flags.
func (e *Engine) GetRoot(path Path) (Path, DirFlags, bool) { return e.Tree.GetRoot(path) }

// ListRoots enumerates all non-shallow nodes in the tree.
func (e *Engine) ListRoots() []RootInfo { return e.Tree.ListRoots() }

// IsIndexable implements spec.md §4.3's eight-step decision for whether
// file should be indexed.
func (e *Engine) IsIndexable(file Path, kind FileKind) bool {
	root, flags, ok := e.Tree.GetRoot(file)
	if !ok {
		// Step 1: file lies outside any registered root.
		return false
	}
	if flags.Has(Ignore) {
		// Step 3.
		return false
	}

	// Step 4: resolve kind through the collaborator probe only when the
	// caller left it unknown under a NoStat root; otherwise kind-based
	// filters are evaluated with whatever kind the caller already knows
	// (including KindUnknown, which matches neither filter kind below).
	if kind == KindUnknown && flags.Has(NoStat) && e.probe != nil {
		if resolved, err := e.probe(file); err == nil {
			kind = resolved
		}
	}
	switch kind {
	case KindDirectory:
		if e.Filters.IsFilteredOut(FilterDirectory, file) {
			return false
		}
	case KindFile:
		if e.Filters.IsFilteredOut(FilterFile, file) {
			return false
		}
	}

	if file.Equal(root) {
		// Step 5: roots are always indexable when not Ignore.
		return true
	}

	if !flags.Has(Recurse) {
		// Step 6: non-recursive roots admit only direct children.
		parent, hasParent := file.Parent()
		if !hasParent || !parent.Equal(root) {
			return false
		}
	}

	if e.filterHidden && file.IsHidden() {
		// Step 7.
		return false
	}

	return true
}

// ParentIsIndexable reports whether parent should be indexed based on its
// contents: it must itself be indexable, and none of children may trigger
// a FilterParentDirectory match under the current default policy. This
// lets an operator exclude directories that contain a marker file (e.g. a
// build-artifact directory) without testing the parent directly.
func (e *Engine) ParentIsIndexable(parent Path, children []Path) bool {
	if !e.IsIndexable(parent, KindDirectory) {
		return false
	}
	for _, c := range children {
		if e.Filters.IsFilteredOut(FilterParentDirectory, c) {
			return false
		}
	}
	return true
}
