package indextree

import (
	"net/url"
	"strings"
)

// Path is an opaque, immutable handle identifying a file-system location.
// Two Paths are Equal iff they have the same scheme and the same cleaned
// sequence of path segments; hashing via String is consistent with
// Equal.
type Path struct {
	scheme   string
	segments []string
}

// ParsePath parses a URI-like string such as "file:///home/user/docs" into
// a Path. A bare absolute path such as "/home/user/docs" is accepted and
// assigned the "file" scheme, matching the common case of glob filters
// supplying an absolute filesystem path rather than a full URI.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		panic("indextree: ParsePath called with empty string")
	}
	if strings.HasPrefix(raw, "/") {
		return Path{scheme: "file", segments: splitClean(raw)}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Path{}, err
	}
	if u.Scheme == "" {
		return Path{scheme: "file", segments: splitClean(raw)}, nil
	}
	return Path{scheme: u.Scheme, segments: splitClean(u.Path)}, nil
}

// MustParsePath is ParsePath for callers (mostly tests and config loading)
// that already know the input is well-formed.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic("indextree: MustParsePath: " + err.Error())
	}
	return p
}

func splitClean(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// IsZero reports whether p is the zero value (no scheme, no segments) -
// never a valid Path returned from ParsePath, used to detect precondition
// violations (e.g. a caller passing Path{} instead of a parsed path).
func (p Path) IsZero() bool {
	return p.scheme == "" && len(p.segments) == 0
}

// Equal reports whether p and other name the same location.
func (p Path) Equal(other Path) bool {
	if p.scheme != other.scheme || len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Contains reports whether other lies strictly inside p (other ⊏ p in
// spec.md's notation: p is a proper ancestor of other).
func (p Path) Contains(other Path) bool {
	if p.scheme != other.scheme {
		return false
	}
	if len(p.segments) >= len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// Parent returns the direct parent of p and true, or the zero Path and
// false if p is already a scheme root (no segments).
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	return Path{scheme: p.scheme, segments: p.segments[:len(p.segments)-1]}, true
}

// Base returns the trailing path component, or "" for a scheme root.
func (p Path) Base() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// IsHidden reports whether p's basename marks it hidden by the usual
// Unix convention (a leading dot). Platform-specific hidden attributes
// (e.g. Windows' FILE_ATTRIBUTE_HIDDEN) are not detected: this package
// never stats the filesystem.
func (p Path) IsHidden() bool {
	return strings.HasPrefix(p.Base(), ".")
}

// FilesystemPath returns the native filesystem path p names, and true, if
// p's scheme is "file". For any other scheme it returns "", false: such a
// Path names a location in some other addressing space (e.g. a
// removable-media URI not yet mounted) that a probe collaborator cannot
// stat directly.
func (p Path) FilesystemPath() (string, bool) {
	if p.scheme != "file" {
		return "", false
	}
	return "/" + strings.Join(p.segments, "/"), true
}

// String renders p back into a URI. It is the canonical form used for
// equality-consistent hashing when a Path is used as a map key.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.scheme)
	b.WriteString("://")
	for _, seg := range p.segments {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	if len(p.segments) == 0 {
		b.WriteByte('/')
	}
	return b.String()
}
