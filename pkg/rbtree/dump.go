package rbtree

import (
	"fmt"
	"io"
	"iter"
)

// Branch tells which side of its parent a dumped node hangs on.
type Branch int

const (
	BranchRoot Branch = iota
	BranchLeft
	BranchRight
)

func (b Branch) String() string {
	switch b {
	case BranchLeft:
		return "L"
	case BranchRight:
		return "R"
	}

	return "root"
}

func (b Branch) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// DumpEntry describes one node of a pre-order dump.
type DumpEntry[K any] struct {
	Depth  int    `json:"depth"`
	Branch Branch `json:"branch"`
	Key    K      `json:"key"`
	Color  Color  `json:"color"`
}

type frame struct {
	id     nodeID
	depth  int
	branch Branch
	indent string
}

// preorder walks the real nodes root first, then the left subtree and the right one.
func (tree *Tree[K]) preorder(cb func(f frame) bool) {
	if tree.root == nilID {
		return
	}

	stack := []frame{{id: tree.root, branch: BranchRoot}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !cb(f) {
			return
		}

		childIndent := f.indent + "     "
		if f.branch == BranchLeft {
			childIndent = f.indent + "|    "
		}

		n := &tree.nodes[f.id]
		// push right first so the left subtree is visited first
		if n.right != nilID {
			stack = append(stack, frame{id: n.right, depth: f.depth + 1, branch: BranchRight, indent: childIndent})
		}

		if n.left != nilID {
			stack = append(stack, frame{id: n.left, depth: f.depth + 1, branch: BranchLeft, indent: childIndent})
		}
	}
}

// Dump returns the pre-order sequence of the tree nodes.
// The sequence is lazy and can be iterated again, it must not be consumed
// while the tree is being modified.
func (tree *Tree[K]) Dump() iter.Seq[DumpEntry[K]] {
	return func(yield func(DumpEntry[K]) bool) {
		tree.preorder(func(f frame) bool {
			n := &tree.nodes[f.id]
			return yield(DumpEntry[K]{
				Depth:  f.depth,
				Branch: f.branch,
				Key:    n.key,
				Color:  n.color,
			})
		})
	}
}

// Render writes the two-dimensional text view of the tree, e.g.
//
//	R----15 (BLACK)
//	     L----5 (RED)
//	     |    L----1 (BLACK)
//	     R----25 (RED)
func (tree *Tree[K]) Render(w io.Writer) (err error) {
	tree.preorder(func(f frame) bool {
		marker := "R----"
		if f.branch == BranchLeft {
			marker = "L----"
		}

		n := &tree.nodes[f.id]
		_, err = fmt.Fprintf(w, "%s%s%v (%s)\n", f.indent, marker, n.key, n.color)
		return err == nil
	})

	return err
}
