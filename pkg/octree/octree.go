// Package octree partitions 3D space to answer "what is near this point" without
// scanning every item.
//
// Nodes live in a flat arena owned by the Tree. Items only keep a NodeID handle to
// the node currently holding them, which makes removal O(capacity) instead of a
// full search and avoids pointer cycles between items and nodes.
package octree

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids3d/pkg/geometry"
)

// NodeID is a non-owning handle to a node in a Tree arena.
type NodeID int32

// NoNode marks an item that is not stored in any tree.
const NoNode NodeID = -1

// DefaultMaxDepth bounds subdivision so that many items sharing one position
// cannot split a node forever.
const DefaultMaxDepth = 16

var (
	ErrInvalidCapacity  = errors.New("octree: capacity must be >= 1")
	ErrDegenerateBounds = errors.New("octree: bounds must have a positive volume")
)

// Item is anything the tree can index.
// SetNode is called by the tree only, to record or clear the back-reference.
type Item interface {
	comparable
	Position() geometry.Vector3
	Node() NodeID
	SetNode(id NodeID)
}

type node[T Item] struct {
	bounds    geometry.Box
	occupants []T
	// children is the id of the first of 8 contiguous octants, NoNode for a leaf.
	children NodeID
	depth    int
}

func (n *node[T]) subdivided() bool {
	return n.children != NoNode
}

// Tree is an arena-backed octree. It is not safe for concurrent mutation;
// concurrent Query calls are fine while nobody inserts, removes or updates.
type Tree[T Item] struct {
	nodes    []node[T]
	capacity int
	maxDepth int
	count    int
}

// Option customizes a Tree at construction.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth sets how deep nodes may subdivide. Nodes at that depth
// keep accepting items beyond capacity.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// New creates an empty tree spanning bounds. Every node stores up to capacity
// items directly before it splits into eight octants.
func New[T Item](bounds geometry.Box, capacity int, opts ...Option) (*Tree[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidCapacity, capacity)
	}
	if bounds.Volume() <= 0 {
		return nil, fmt.Errorf("%w (got %s)", ErrDegenerateBounds, bounds)
	}
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	t := &Tree[T]{
		nodes:    make([]node[T], 1, 64),
		capacity: capacity,
		maxDepth: o.maxDepth,
	}
	t.nodes[0] = node[T]{bounds: bounds, children: NoNode}
	return t, nil
}

// Root returns the volume covered by the root node.
func (t *Tree[T]) Root() geometry.Box {
	return t.nodes[0].bounds
}

// Capacity returns the per-node capacity.
func (t *Tree[T]) Capacity() int {
	return t.capacity
}

// Len returns the number of stored items.
func (t *Tree[T]) Len() int {
	return t.count
}

// NodeCount returns the number of nodes in the arena, root included.
func (t *Tree[T]) NodeCount() int {
	return len(t.nodes)
}

// Depth returns the depth of the deepest node, 0 when only the root exists.
func (t *Tree[T]) Depth() int {
	d := 0
	for i := range t.nodes {
		if t.nodes[i].depth > d {
			d = t.nodes[i].depth
		}
	}
	return d
}

// Insert stores item at its current position. It returns false when the
// position lies outside the root bounds (or is not finite).
func (t *Tree[T]) Insert(item T) bool {
	p := item.Position()
	if !p.IsFinite() || !t.nodes[0].bounds.Contains(p) {
		return false
	}
	t.insertAt(0, item, p)
	return true
}

func (t *Tree[T]) insertAt(id NodeID, item T, p geometry.Vector3) {
	for {
		n := &t.nodes[id]
		if len(n.occupants) < t.capacity || n.depth >= t.maxDepth {
			n.occupants = append(n.occupants, item)
			item.SetNode(id)
			t.count++
			return
		}
		if !n.subdivided() {
			t.subdivide(id)
		}
		// subdivide may have grown the arena, reload through the slice.
		parent := &t.nodes[id]
		id = parent.children + NodeID(parent.bounds.Octant(p))
	}
}

// subdivide appends the eight octants of node id. Calling it on a node that
// already has children does nothing.
func (t *Tree[T]) subdivide(id NodeID) {
	if t.nodes[id].subdivided() {
		return
	}
	parent := t.nodes[id]
	first := NodeID(len(t.nodes))
	for i := 0; i < 8; i++ {
		// Reuse occupant storage left behind by a previous Reset.
		var occ []T
		if slot := len(t.nodes); slot < cap(t.nodes) {
			occ = t.nodes[:slot+1][slot].occupants[:0]
		}
		t.nodes = append(t.nodes, node[T]{
			bounds:    parent.bounds.Child(i),
			occupants: occ,
			children:  NoNode,
			depth:     parent.depth + 1,
		})
	}
	t.nodes[id].children = first
}

// Remove deletes item from the node holding it. The recorded back-reference is
// tried first, a full scan is the fallback.
func (t *Tree[T]) Remove(item T) bool {
	if id := item.Node(); t.valid(id) && t.removeFrom(id, item) {
		item.SetNode(NoNode)
		return true
	}
	for i := range t.nodes {
		if t.removeFrom(NodeID(i), item) {
			item.SetNode(NoNode)
			return true
		}
	}
	return false
}

func (t *Tree[T]) removeFrom(id NodeID, item T) bool {
	occ := t.nodes[id].occupants
	for i, o := range occ {
		if o != item {
			continue
		}
		last := len(occ) - 1
		occ[i] = occ[last]
		var zero T
		occ[last] = zero
		t.nodes[id].occupants = occ[:last]
		t.count--
		return true
	}
	return false
}

// Update keeps item indexed after it moved. While the item is still inside
// the bounds of its node nothing changes; otherwise it is removed and
// reinserted from the root. An item that is not indexed yet is inserted.
func (t *Tree[T]) Update(item T) bool {
	id := item.Node()
	if t.valid(id) && t.nodes[id].bounds.Contains(item.Position()) {
		return true
	}
	if id != NoNode {
		t.Remove(item)
	}
	return t.Insert(item)
}

func (t *Tree[T]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Query appends to dst every item held by a node whose bounds intersect the
// sphere and returns the extended slice. The result is a superset of the items
// within the radius; callers filter by exact distance. Order is unspecified.
func (t *Tree[T]) Query(s geometry.Sphere, dst []T) []T {
	if t.count == 0 {
		return dst
	}
	return t.query(0, s, dst)
}

func (t *Tree[T]) query(id NodeID, s geometry.Sphere, dst []T) []T {
	n := &t.nodes[id]
	if !n.bounds.IntersectsSphere(s) {
		return dst
	}
	if s.ContainsBox(n.bounds) {
		return t.collect(id, dst)
	}
	dst = append(dst, n.occupants...)
	if n.subdivided() {
		for i := NodeID(0); i < 8; i++ {
			dst = t.query(n.children+i, s, dst)
		}
	}
	return dst
}

// collect appends the whole subtree without further intersection tests.
func (t *Tree[T]) collect(id NodeID, dst []T) []T {
	n := &t.nodes[id]
	dst = append(dst, n.occupants...)
	if n.subdivided() {
		for i := NodeID(0); i < 8; i++ {
			dst = t.collect(n.children+i, dst)
		}
	}
	return dst
}

// Reset empties the tree, clearing the back-reference of every stored item.
// Arena and occupant storage are kept for the next build.
func (t *Tree[T]) Reset() {
	for i := range t.nodes {
		n := &t.nodes[i]
		for j, o := range n.occupants {
			o.SetNode(NoNode)
			var zero T
			n.occupants[j] = zero
		}
		n.occupants = n.occupants[:0]
	}
	root := t.nodes[0]
	t.nodes = t.nodes[:1]
	t.nodes[0] = node[T]{bounds: root.bounds, occupants: root.occupants, children: NoNode}
	t.count = 0
}

// NodeInfo describes one node for debug overlays.
type NodeInfo struct {
	ID        NodeID
	Bounds    geometry.Box
	Depth     int
	Occupants int
	Leaf      bool
}

// Walk visits every node depth-first, parents before children.
// Returning false from fn stops the walk.
func (t *Tree[T]) Walk(fn func(NodeInfo) bool) {
	t.walk(0, fn)
}

func (t *Tree[T]) walk(id NodeID, fn func(NodeInfo) bool) bool {
	n := &t.nodes[id]
	if !fn(NodeInfo{ID: id, Bounds: n.bounds, Depth: n.depth, Occupants: len(n.occupants), Leaf: !n.subdivided()}) {
		return false
	}
	if n.subdivided() {
		for i := NodeID(0); i < 8; i++ {
			if !t.walk(n.children+i, fn) {
				return false
			}
		}
	}
	return true
}

// Bounds returns the box of every node, used to draw the partition.
func (t *Tree[T]) Bounds() []geometry.Box {
	boxes := make([]geometry.Box, 0, len(t.nodes))
	t.Walk(func(info NodeInfo) bool {
		boxes = append(boxes, info.Bounds)
		return true
	})
	return boxes
}

// Occupants returns a copy of the items stored directly in node id.
func (t *Tree[T]) Occupants(id NodeID) []T {
	if !t.valid(id) {
		return nil
	}
	return append([]T(nil), t.nodes[id].occupants...)
}
