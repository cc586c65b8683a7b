package packing

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoRoom is returned by Insert when a node cannot take a box.
var ErrNoRoom = errors.New("no room")

// Kind tags the variant of a Node.
type Kind int

const (
	// Free is empty space that may still receive a box.
	Free Kind = iota
	// Split is a former Free leaf, divided into a used region and the
	// remaining free space.
	Split
	// Used is a region allocated to one box. Its first child is the Opaque
	// node, the others are fragments left over inside the region.
	Used
	// Opaque is the space consumed by a box, padding included. It never
	// takes further insertions.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "free"
	case Split:
		return "split"
	case Used:
		return "used"
	case Opaque:
		return "opaque"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Node is a node in the partition tree. Children never overlap and, apart
// from dropped zero-area pieces, cover the node's rect.
type Node struct {
	Kind     Kind
	Rect     Rect
	Box      *Box // set on Used and Opaque nodes
	Children []*Node
}

// NewRoot returns a free node of the passed size.
func NewRoot(w, h int) *Node {
	return &Node{Kind: Free, Rect: RectFromSize(w, h)}
}

func (n *Node) String() string {
	if n.Box != nil {
		return fmt.Sprintf("<%s %v %s>", n.Kind, n.Rect, n.Box.Name())
	}
	return fmt.Sprintf("<%s %v>", n.Kind, n.Rect)
}

// Insert places b somewhere inside n and returns the Opaque node holding it.
// If b fits nowhere, ErrNoRoom is returned.
func Insert(n *Node, b *Box) (*Node, error) {
	switch n.Kind {
	case Opaque:
		return nil, errors.Wrap(ErrNoRoom, "opaque node")
	case Split, Used:
		return insertChild(n, b)
	case Free:
		return insertDivide(n, b)
	default:
		return nil, errors.Errorf("packing: unknown node kind %v", n.Kind)
	}
}

// insertChild inserts b into the first child that can take it.
func insertChild(n *Node, b *Box) (*Node, error) {
	for _, c := range n.Children {
		op, err := Insert(c, b)
		if err == nil {
			return op, nil
		}
		if errors.Cause(err) != ErrNoRoom {
			return nil, err
		}
	}
	return nil, errors.Wrap(ErrNoRoom, "could not fit into any child")
}

// insertDivide turns the free leaf n into a split node: one child is the
// region used by b, the other whatever is left.
func insertDivide(n *Node, b *Box) (*Node, error) {
	if !n.Rect.Fits(b) {
		return nil, errors.Wrapf(ErrNoRoom, "%v does not fit in %v", b, n.Rect)
	}

	usedRect, freeRect := n.Rect, n.Rect
	if b.Aspect() > n.Rect.Aspect() {
		// +----+----+
		// |used|free|
		// +----+----+
		usedRect.X2 = n.Rect.X1 + b.OuterWidth()
		freeRect.X1 = usedRect.X2
	} else {
		// +----+
		// |used|
		// +----+
		// |free|
		// +----+
		usedRect.Y2 = n.Rect.Y1 + b.OuterHeight()
		freeRect.Y1 = usedRect.Y2
	}

	opaque := &Node{
		Kind: Opaque,
		Box:  b,
		Rect: Rect{
			X1: usedRect.X1,
			Y1: usedRect.Y1,
			X2: usedRect.X1 + b.OuterWidth(),
			Y2: usedRect.Y1 + b.OuterHeight(),
		},
	}
	used := &Node{Kind: Used, Box: b, Rect: usedRect, Children: []*Node{opaque}}

	or := opaque.Rect
	fragments := []Rect{
		{X1: usedRect.X1, Y1: or.Y2, X2: or.X2, Y2: usedRect.Y2}, // below
		{X1: or.X2, Y1: usedRect.Y1, X2: usedRect.X2, Y2: or.Y2}, // right
		{X1: or.X2, Y1: or.Y2, X2: usedRect.X2, Y2: usedRect.Y2}, // corner
	}
	for _, f := range fragments {
		if f.Width() > 0 && f.Height() > 0 {
			used.Children = append(used.Children, &Node{Kind: Free, Rect: f})
		}
	}

	n.Kind = Split
	n.Children = []*Node{used}
	if freeRect.Width() > 0 && freeRect.Height() > 0 {
		n.Children = append(n.Children, &Node{Kind: Free, Rect: freeRect})
	}
	return opaque, nil
}

// Walk calls fn for n and every node below it, depth first, parents before
// children.
func Walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Crop clamps the far edge of every node to w by h, dropping children that
// lie entirely outside.
func Crop(n *Node, w, h int) {
	n.Rect.X2 = min(n.Rect.X2, w)
	n.Rect.Y2 = min(n.Rect.Y2, h)
	if len(n.Children) == 0 {
		return
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Rect.X1 < w && c.Rect.Y1 < h {
			Crop(c, w, h)
			kept = append(kept, c)
		}
	}
	n.Children = kept
}
