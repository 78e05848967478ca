package util

import (
	"fmt"
	"strings"
)

// Path is a construct for describing dotted names within Acacia: an `import`
// target, a module-qualified name, or an `interface path.subpath`
// declaration (spec.md §4.7).  A path can be either *absolute* (anchored at
// the root of the current compilation unit) or *relative* (anchored at
// whatever scope it is resolved against).
type Path struct {
	// Indicates whether or not this is an absolute path.
	absolute bool
	// Segments in the path.
	segments []string
}

// NewAbsolutePath constructs a new absolute path from the given segments.
func NewAbsolutePath(segments ...string) Path {
	return Path{true, segments}
}

// NewRelativePath constructs a new relative path from the given segments.
func NewRelativePath(segments ...string) Path {
	return Path{false, segments}
}

// ParseDottedPath splits a `path.subpath` style interface declaration (or a
// dotted import target) into its segments, as an absolute path.
func ParseDottedPath(dotted string) Path {
	return NewAbsolutePath(strings.Split(dotted, ".")...)
}

// Depth returns the number of segments in this path (a.k.a its depth).
func (p *Path) Depth() uint {
	return uint(len(p.segments))
}

// IsAbsolute determines whether or not this is an absolute path.
func (p *Path) IsAbsolute() bool {
	return p.absolute
}

// Head returns the first (i.e. outermost) segment in this path.
func (p *Path) Head() string {
	return p.segments[0]
}

// Dehead removes the head from this path, returning an otherwise identical
// path.  Observe that, if this were absolute, it is no longer!
func (p *Path) Dehead() *Path {
	return &Path{false, p.segments[1:]}
}

// Tail returns the last (i.e. innermost) segment in this path.
func (p *Path) Tail() string {
	n := len(p.segments) - 1
	return p.segments[n]
}

// Get returns the nth segment of this path.
func (p *Path) Get(nth uint) string {
	return p.segments[nth]
}

// Segments returns a defensive copy of this path's segments.
func (p *Path) Segments() []string {
	return append([]string{}, p.segments...)
}

// Equals determines whether two paths are the same.
func (p *Path) Equals(other Path) bool {
	if p.absolute != other.absolute || len(p.segments) != len(other.segments) {
		return false
	}
	//
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	//
	return true
}

// Parent returns the parent of this path (i.e. everything but the innermost
// segment).
func (p *Path) Parent() *Path {
	n := p.Depth() - 1
	return &Path{p.absolute, p.segments[0:n]}
}

// Extend returns this path extended with a new innermost segment.
func (p *Path) Extend(tail string) *Path {
	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = tail
	//
	return &Path{p.absolute, segments}
}

// Dotted renders this path the way a `path.subpath` interface declaration or
// import target is written in Acacia source.
func (p *Path) Dotted() string {
	return strings.Join(p.segments, ".")
}

// FsPath renders this path as a filesystem path with a given extension
// (e.g. `.aca`), the way the module loader maps a dotted import target to
// a source file.
func (p *Path) FsPath(extension string) string {
	return strings.Join(p.segments, "/") + extension
}

// String returns a human-readable representation of this path: its dotted
// form, prefixed with "./" when relative.
func (p *Path) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	//
	if p.absolute {
		return p.Dotted()
	}
	//
	return fmt.Sprintf("./%s", p.Dotted())
}
