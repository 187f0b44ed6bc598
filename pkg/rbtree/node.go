package rbtree

import "cmp"

// Color is the RB Tree color
type Color bool

const (
	Red   = Color(false)
	Black = Color(true)
)

func (c Color) String() string {
	if c == Red {
		return "RED"
	}

	return "BLACK"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// nodeID is the index of a node in the tree arena.
// The zero id is the sentinel.
type nodeID int32

const nilID nodeID = 0

/*
node
A red node always has black children.
A black node may have red or black children
*/
type node[K cmp.Ordered] struct {
	parent, left, right nodeID
	key                 K
	color               Color
}

// Handle is a read-only snapshot of a node returned by Search.
type Handle[K cmp.Ordered] struct {
	key   K
	color Color
}

// Key returns the key of the node.
func (h Handle[K]) Key() K {
	return h.key
}

// Color returns the node color at the time of the lookup.
func (h Handle[K]) Color() Color {
	return h.color
}
