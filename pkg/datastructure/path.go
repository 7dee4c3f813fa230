package datastructure

import "strings"

const pathKeySeparator = "\x1f"

// Path is an ordered sequence of node ids. a single node path means origin == destination.
type Path []string

func NewPath(nodes ...string) Path {
	p := make(Path, len(nodes))
	copy(p, nodes)
	return p
}

// Key returns a comparable representation used for set membership of paths.
func (p Path) Key() string {
	return strings.Join(p, pathKeySeparator)
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	c := make(Path, len(p))
	copy(c, p)
	return c
}

func (p Path) Source() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

func (p Path) Target() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// HasPrefix reports whether the first len(prefix) nodes of p equal prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Less orders paths lexicographically by node id, shorter prefix first.
func (p Path) Less(other Path) bool {
	n := len(p)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if p[i] != other[i] {
			return p[i] < other[i]
		}
	}
	return len(p) < len(other)
}
