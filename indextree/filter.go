package indextree

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// FilterKind classifies what a filter entry targets.
type FilterKind int

const (
	// FilterFile matches basenames of regular files.
	FilterFile FilterKind = iota
	// FilterDirectory matches basenames of directories.
	FilterDirectory
	// FilterParentDirectory matches children used to decide whether
	// their parent directory should be indexed (e.g. a marker file).
	FilterParentDirectory

	numFilterKinds = FilterParentDirectory + 1
)

// Policy is the default accept/deny stance for a FilterKind when no entry
// of that kind matches (or, symmetrically, what happens when one does).
type Policy int

const (
	// Accept is the initial policy for every kind: filters of that kind
	// behave as a blacklist.
	Accept Policy = iota
	// Deny turns filters of that kind into a whitelist.
	Deny
)

type filterEntry struct {
	kind   FilterKind
	glob   string
	abs    Path
	hasAbs bool
}

// Filters is an ordered list of glob-style entries classified by kind,
// plus a per-kind default policy. Glob patterns are compiled with
// bmatcuk/doublestar, which supports "**" in addition to the usual
// single-component "*"/"?"/"[...]" wildcards.
type Filters struct {
	entries  []filterEntry
	policies [numFilterKinds]Policy
}

// NewFilters returns a Filters with every kind's default policy set to
// Accept, matching tracker_indexing_tree_init's initialization loop.
func NewFilters() *Filters {
	return &Filters{}
}

func checkKind(kind FilterKind) {
	if kind < FilterFile || kind > FilterParentDirectory {
		panic(ErrInvalidKind)
	}
}

// AddFilter compiles glob and appends it to the filter set under kind. If
// the raw string is an absolute path (leading "/" or a scheme-qualified
// URI), it is additionally captured so the entry also matches any file at
// or beneath that absolute location.
func (f *Filters) AddFilter(kind FilterKind, glob string) error {
	checkKind(kind)
	if glob == "" {
		panic("indextree: AddFilter called with empty glob")
	}
	if _, err := doublestar.Match(glob, "probe"); err != nil {
		return errors.Wrapf(ErrBadGlob, "%q: %v", glob, err)
	}
	entry := filterEntry{kind: kind, glob: glob}
	if isAbsoluteGlob(glob) {
		abs, err := ParsePath(glob)
		if err != nil {
			return errors.Wrapf(ErrBadGlob, "%q: absolute glob did not parse as a path: %v", glob, err)
		}
		entry.abs = abs
		entry.hasAbs = true
	}
	f.entries = append(f.entries, entry)
	return nil
}

func isAbsoluteGlob(glob string) bool {
	if strings.HasPrefix(glob, "/") {
		return true
	}
	if i := strings.Index(glob, "://"); i > 0 {
		return true
	}
	return false
}

// ClearFilters removes every entry of the given kind, implemented as a
// simple filter-by-predicate per spec.md §9's guidance on the source's
// mutate-while-iterating clear_filters.
func (f *Filters) ClearFilters(kind FilterKind) {
	checkKind(kind)
	kept := f.entries[:0:0]
	for _, e := range f.entries {
		if e.kind != kind {
			kept = append(kept, e)
		}
	}
	f.entries = kept
}

// Matches reports whether some filter entry of kind matches file: either
// the entry carries an absolute path that equals or contains file, or the
// entry's glob matches file's basename. Evaluation is a pure OR with no
// prescribed order.
func (f *Filters) Matches(kind FilterKind, file Path) bool {
	checkKind(kind)
	for _, e := range f.entries {
		if e.kind != kind {
			continue
		}
		if e.hasAbs {
			if e.abs.Equal(file) || e.abs.Contains(file) {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(e.glob, file.Base()); ok {
			return true
		}
	}
	return false
}

// SetDefaultPolicy sets the default policy for kind.
func (f *Filters) SetDefaultPolicy(kind FilterKind, policy Policy) {
	checkKind(kind)
	f.policies[kind] = policy
}

// DefaultPolicy returns the default policy for kind.
func (f *Filters) DefaultPolicy(kind FilterKind) Policy {
	checkKind(kind)
	return f.policies[kind]
}

// IsFilteredOut combines Matches and the kind's default policy: under
// Accept, filters act as a blacklist (matching excludes); under Deny,
// filters act as a whitelist (only matching admits).
func (f *Filters) IsFilteredOut(kind FilterKind, file Path) bool {
	matched := f.Matches(kind, file)
	policy := f.DefaultPolicy(kind)
	return (matched && policy == Accept) || (!matched && policy == Deny)
}
