// Package atlas provides a binary-tree rectangle packer for building
// texture atlases out of sprite images.
package atlas

import (
	"fmt"

	"github.com/veldtgames/skewline/pkg/geom"
)

// NodeID identifies a node in a Packer's node store. It doubles as the
// identity of an allocated area for freeing.
type NodeID uint16

// InvalidNodeID marks an absent child or a failed allocation.
const InvalidNodeID = NodeID(0xFFFF)

// maxNodeCount is the number of node ids representable below the sentinel.
const maxNodeCount = 0xFFFF

// MaxSurfaceExtent is the largest supported surface size per axis.
const MaxSurfaceExtent = 0xFFFF

// Area describes a rectangular region allocated from a Packer.
// Min is inclusive, Max exclusive. An Area must not outlive the Packer
// that produced it and must be freed at most once.
type Area struct {
	ID  NodeID
	Min geom.Point
	Max geom.Point
}

// Valid reports whether the area represents a successful allocation.
func (a Area) Valid() bool {
	return a.ID != InvalidNodeID
}

// Size returns the area's extent.
func (a Area) Size() geom.Point {
	return a.Max.Sub(a.Min)
}

// A node is either an internal node with two children partitioning its
// bounds, or a leaf that is free or occupied by exactly one allocation
// matching its bounds. Splits are permanent: nodes are appended and never
// removed, so freeing a leaf keeps the partition for exact-size reuse.
type node struct {
	bounds   geom.Rect
	children [2]NodeID
	full     bool
}

func (n *node) leaf() bool {
	return n.children[0] == InvalidNodeID
}

// Packer allocates rectangular sub-regions of a fixed-size 2D surface.
type Packer struct {
	nodes []node
}

// NewPacker creates a packer over a width x height surface.
func NewPacker(width, height int) *Packer {
	if width <= 0 || height <= 0 || width > MaxSurfaceExtent || height > MaxSurfaceExtent {
		panic(fmt.Sprintf("atlas: invalid surface size %dx%d", width, height))
	}
	p := &Packer{nodes: make([]node, 0, 64)}
	p.nodes = append(p.nodes, node{
		bounds:   geom.Rct(0, 0, width, height),
		children: [2]NodeID{InvalidNodeID, InvalidNodeID},
	})
	return p
}

// Allocate reserves a size.X x size.Y region and returns its area.
// On failure (no free leaf large enough, or the node store is exhausted)
// the returned area is invalid. Zero-sized requests are a contract
// violation.
func (p *Packer) Allocate(size geom.Point) Area {
	if size.X <= 0 || size.Y <= 0 {
		panic(fmt.Sprintf("atlas: zero-sized allocation %dx%d", size.X, size.Y))
	}
	id := p.insert(0, size)
	if id == InvalidNodeID {
		return Area{ID: InvalidNodeID}
	}
	b := p.nodes[id].bounds
	return Area{ID: id, Min: b.Min, Max: b.Max}
}

func (p *Packer) insert(id NodeID, size geom.Point) NodeID {
	n := p.nodes[id]

	if !n.leaf() {
		if got := p.insert(n.children[0], size); got != InvalidNodeID {
			return got
		}
		return p.insert(n.children[1], size)
	}

	if n.full {
		return InvalidNodeID
	}

	w, h := n.bounds.Dx(), n.bounds.Dy()
	if w < size.X || h < size.Y {
		return InvalidNodeID
	}
	if w == size.X && h == size.Y {
		p.nodes[id].full = true
		return id
	}

	if len(p.nodes)+2 > maxNodeCount {
		return InvalidNodeID
	}

	// Cut along the axis with more remaining free space. The requested
	// size goes exactly into the first child, the remainder into the
	// second.
	var first, second geom.Rect
	if w-size.X > h-size.Y {
		cut := n.bounds.Min.X + size.X
		first = geom.Rect{Min: n.bounds.Min, Max: geom.Pt(cut, n.bounds.Max.Y)}
		second = geom.Rect{Min: geom.Pt(cut, n.bounds.Min.Y), Max: n.bounds.Max}
	} else {
		cut := n.bounds.Min.Y + size.Y
		first = geom.Rect{Min: n.bounds.Min, Max: geom.Pt(n.bounds.Max.X, cut)}
		second = geom.Rect{Min: geom.Pt(n.bounds.Min.X, cut), Max: n.bounds.Max}
	}

	firstID := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, node{bounds: first, children: [2]NodeID{InvalidNodeID, InvalidNodeID}})
	secondID := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, node{bounds: second, children: [2]NodeID{InvalidNodeID, InvalidNodeID}})
	p.nodes[id].children = [2]NodeID{firstID, secondID}

	return p.insert(firstID, size)
}

// Free releases a previously allocated area, making its leaf available
// for exact-size reuse. Freeing an invalid, mismatched or already-freed
// area is a contract violation.
func (p *Packer) Free(area Area) {
	if !area.Valid() || int(area.ID) >= len(p.nodes) {
		panic(fmt.Sprintf("atlas: free of invalid area %v", area.ID))
	}
	n := &p.nodes[area.ID]
	if !n.leaf() {
		panic(fmt.Sprintf("atlas: free of non-leaf node %v", area.ID))
	}
	if !n.full {
		panic(fmt.Sprintf("atlas: double free of node %v", area.ID))
	}
	if n.bounds.Min != area.Min || n.bounds.Max != area.Max {
		panic(fmt.Sprintf("atlas: area bounds %v-%v do not match node %v", area.Min, area.Max, area.ID))
	}
	n.full = false
}

// Empty reports whether no allocation remains anywhere in the tree.
func (p *Packer) Empty() bool {
	for i := range p.nodes {
		if p.nodes[i].full {
			return false
		}
	}
	return true
}

// NodeCount returns the number of stored nodes. Splits are permanent, so
// this only grows over the packer's lifetime.
func (p *Packer) NodeCount() int {
	return len(p.nodes)
}
