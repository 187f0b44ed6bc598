package rbtree

import (
	"fmt"

	"go.uber.org/multierr"
)

// Verify checks the red-black properties, the key order and the parent links
// of the whole tree. All violations found are combined into the returned error.
func (tree *Tree[K]) Verify() (err error) {
	sentinel := tree.nodes[nilID]
	if sentinel.color != Black {
		err = multierr.Append(err, fmt.Errorf("sentinel is not black"))
	}

	if sentinel.parent != nilID || sentinel.left != nilID || sentinel.right != nilID {
		err = multierr.Append(err, fmt.Errorf("sentinel links are not empty: %+v", sentinel))
	}

	if tree.root == nilID {
		if tree.size != 0 {
			err = multierr.Append(err, fmt.Errorf("empty tree reports size %d", tree.size))
		}

		return err
	}

	if tree.nodes[tree.root].color != Black {
		err = multierr.Append(err, fmt.Errorf("root %v is not black", tree.nodes[tree.root].key))
	}

	if tree.nodes[tree.root].parent != nilID {
		err = multierr.Append(err, fmt.Errorf("root %v has a parent", tree.nodes[tree.root].key))
	}

	// equal keys may end up on either side after rotations,
	// so the order is checked on the in-order sequence
	var prev *K
	tree.inorder(func(id nodeID) bool {
		key := tree.nodes[id].key
		if prev != nil && key < *prev {
			err = multierr.Append(err, fmt.Errorf("in-order keys are not sorted: %v after %v", key, *prev))
			return false
		}

		prev = &key
		return true
	})

	var count int
	_, checkErr := tree.checkSubtree(tree.root, &count)
	err = multierr.Append(err, checkErr)

	if count != tree.size {
		err = multierr.Append(err, fmt.Errorf("tree size %d does not match node count %d", tree.size, count))
	}

	return err
}

// checkSubtree returns the black-height of the subtree rooted at id.
func (tree *Tree[K]) checkSubtree(id nodeID, count *int) (blackHeight int, err error) {
	if id == nilID {
		return 0, nil
	}

	*count++
	n := &tree.nodes[id]

	if n.left != nilID {
		l := &tree.nodes[n.left]
		if l.parent != id {
			err = multierr.Append(err, fmt.Errorf("left child %v of %v has a wrong parent link", l.key, n.key))
		}
	}

	if n.right != nilID {
		r := &tree.nodes[n.right]
		if r.parent != id {
			err = multierr.Append(err, fmt.Errorf("right child %v of %v has a wrong parent link", r.key, n.key))
		}
	}

	if n.color == Red && (tree.colorOf(n.left) == Red || tree.colorOf(n.right) == Red) {
		err = multierr.Append(err, fmt.Errorf("red node %v has a red child", n.key))
	}

	lh, lerr := tree.checkSubtree(n.left, count)
	rh, rerr := tree.checkSubtree(n.right, count)
	err = multierr.Combine(err, lerr, rerr)

	if lh != rh {
		err = multierr.Append(err, fmt.Errorf("black-height mismatch at %v: left = %d, right = %d", n.key, lh, rh))
	}

	blackHeight = lh
	if n.color == Black {
		blackHeight++
	}

	return blackHeight, err
}

// inorder visits the real nodes in ascending key order.
func (tree *Tree[K]) inorder(cb func(id nodeID) bool) {
	var stack []nodeID
	current := tree.root
	for current != nilID || len(stack) > 0 {
		for current != nilID {
			stack = append(stack, current)
			current = tree.nodes[current].left
		}

		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !cb(current) {
			return
		}

		current = tree.nodes[current].right
	}
}
