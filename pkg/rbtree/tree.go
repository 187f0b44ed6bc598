package rbtree

import (
	"cmp"

	"github.com/sirupsen/logrus"
)

type Stats struct {
	Alloc int64
	Free  int64
	Reuse int64
}

// Tree is a red-black tree over an ordered key type.
// Nodes live in an arena, links between them are arena indices.
// Slot 0 of the arena is the shared black sentinel.
//
// Tree is not safe for concurrent use, see the treesvc package for a guarded wrapper.
type Tree[K cmp.Ordered] struct {
	nodes []node[K]
	free  []nodeID
	root  nodeID
	size  int

	stats Stats
}

func New[K cmp.Ordered]() *Tree[K] {
	tree := &Tree[K]{
		nodes: make([]node[K], 1, 16),
		root:  nilID,
	}

	tree.nodes[nilID].color = Black
	return tree
}

// Len returns the number of keys, duplicates included.
func (tree *Tree[K]) Len() int {
	return tree.size
}

func (tree *Tree[K]) Stats() Stats {
	return tree.stats
}

// Root returns the snapshot of the root node, false if the tree is empty.
func (tree *Tree[K]) Root() (Handle[K], bool) {
	if tree.root == nilID {
		return Handle[K]{}, false
	}

	return tree.handle(tree.root), true
}

// Height returns the number of real nodes on the longest root-to-leaf path.
func (tree *Tree[K]) Height() int {
	return tree.heightOf(tree.root)
}

func (tree *Tree[K]) heightOf(id nodeID) int {
	if id == nilID {
		return 0
	}

	n := &tree.nodes[id]
	return 1 + max(tree.heightOf(n.left), tree.heightOf(n.right))
}

func (tree *Tree[K]) handle(id nodeID) Handle[K] {
	n := &tree.nodes[id]
	return Handle[K]{key: n.key, color: n.color}
}

func (tree *Tree[K]) at(id nodeID) *node[K] {
	return &tree.nodes[id]
}

func (tree *Tree[K]) colorOf(id nodeID) Color {
	return tree.nodes[id].color
}

// newNode takes a slot from the free list or grows the arena.
func (tree *Tree[K]) newNode(key K, color Color) nodeID {
	var id nodeID
	if l := len(tree.free); l > 0 {
		id = tree.free[l-1]
		tree.free = tree.free[:l-1]
		tree.stats.Reuse++
	} else {
		tree.nodes = append(tree.nodes, node[K]{})
		id = nodeID(len(tree.nodes) - 1)
	}

	tree.nodes[id] = node[K]{
		parent: nilID,
		left:   nilID,
		right:  nilID,
		key:    key,
		color:  color,
	}

	tree.stats.Alloc++
	return id
}

// release returns the slot to the free list
func (tree *Tree[K]) release(id nodeID) {
	tree.nodes[id] = node[K]{}
	tree.free = append(tree.free, id)
	tree.stats.Free++
}

// Insert adds the key to the tree. Equal keys are kept, a new equal key
// lands in the right subtree of the existing one.
func (tree *Tree[K]) Insert(key K) {
	// allocate before taking any pointer into the arena
	z := tree.newNode(key, Red)

	var y = nilID
	var x = tree.root
	for x != nilID {
		y = x

		if key < tree.nodes[x].key {
			x = tree.nodes[x].left
		} else {
			x = tree.nodes[x].right
		}
	}

	tree.nodes[z].parent = y
	if y == nilID {
		tree.root = z
	} else if key < tree.nodes[y].key {
		tree.nodes[y].left = z
	} else {
		tree.nodes[y].right = z
	}

	tree.size++
	tree.insertFixup(z)
}

func (tree *Tree[K]) insertFixup(current nodeID) {
	// A red node can't have a red parent, we need to fix it up
	for {
		parent := tree.nodes[current].parent
		if parent == nilID || tree.colorOf(parent) != Red {
			break
		}

		// a red parent is never the root, so the grandparent is a real node
		grandparent := tree.nodes[parent].parent

		if parent == tree.nodes[grandparent].left {
			uncle := tree.nodes[grandparent].right
			if tree.colorOf(uncle) == Red {
				tree.at(parent).color = Black
				tree.at(uncle).color = Black
				tree.at(grandparent).color = Red
				current = grandparent
			} else { // if uncle is black
				if current == tree.nodes[parent].right {
					current = parent
					tree.rotateLeft(current)
				}

				parent = tree.nodes[current].parent
				grandparent = tree.nodes[parent].parent
				tree.at(parent).color = Black
				tree.at(grandparent).color = Red
				tree.rotateRight(grandparent)
			}
		} else {
			uncle := tree.nodes[grandparent].left
			if tree.colorOf(uncle) == Red {
				tree.at(parent).color = Black
				tree.at(uncle).color = Black
				tree.at(grandparent).color = Red
				current = grandparent
			} else {
				if current == tree.nodes[parent].left {
					current = parent
					tree.rotateRight(current)
				}

				parent = tree.nodes[current].parent
				grandparent = tree.nodes[parent].parent
				tree.at(parent).color = Black
				tree.at(grandparent).color = Red
				tree.rotateLeft(grandparent)
			}
		}
	}

	// ensure that root is black
	tree.at(tree.root).color = Black
}

// Search returns the snapshot of the first node holding key met on the way
// down from the root, or ErrKeyNotFound.
func (tree *Tree[K]) Search(key K) (Handle[K], error) {
	id := tree.find(key)
	if id == nilID {
		return Handle[K]{}, ErrKeyNotFound
	}

	return tree.handle(id), nil
}

func (tree *Tree[K]) Contains(key K) bool {
	return tree.find(key) != nilID
}

func (tree *Tree[K]) find(key K) nodeID {
	var current = tree.root
	for current != nilID {
		n := &tree.nodes[current]
		if key == n.key {
			return current
		}

		if key < n.key {
			current = n.left
		} else {
			current = n.right
		}
	}

	return nilID
}

// rotateLeft
// x is the axes of rotation, y is the node that will be replace x's position.
// we need to:
// 1. move y's left child to the x's right child
// 2. change y's parent to x's parent
// 3. change x's parent to y
func (tree *Tree[K]) rotateLeft(x nodeID) {
	xn := tree.at(x)
	y := xn.right
	if y == nilID {
		logrus.Panicf("rbtree: rotate left without a right child: node = %d", x)
	}

	yn := tree.at(y)
	xn.right = yn.left
	if yn.left != nilID {
		tree.at(yn.left).parent = x
	}

	yn.parent = xn.parent
	if xn.parent == nilID {
		tree.root = y
	} else if p := tree.at(xn.parent); x == p.left {
		p.left = y
	} else {
		p.right = y
	}

	yn.left = x
	xn.parent = y
}

func (tree *Tree[K]) rotateRight(y nodeID) {
	yn := tree.at(y)
	x := yn.left
	if x == nilID {
		logrus.Panicf("rbtree: rotate right without a left child: node = %d", y)
	}

	xn := tree.at(x)
	yn.left = xn.right
	if xn.right != nilID {
		tree.at(xn.right).parent = y
	}

	xn.parent = yn.parent
	if yn.parent == nilID {
		tree.root = x
	} else if p := tree.at(yn.parent); y == p.left {
		p.left = x
	} else {
		p.right = x
	}

	xn.right = y
	yn.parent = x
}

// transplant replaces sub-tree rooted at u with subtree rooted at v.
// The sentinel never records a parent.
func (tree *Tree[K]) transplant(u, v nodeID) {
	up := tree.nodes[u].parent
	if up == nilID {
		tree.root = v
	} else if p := tree.at(up); u == p.left {
		p.left = v
	} else {
		p.right = v
	}

	if v != nilID {
		tree.at(v).parent = up
	}
}

func (tree *Tree[K]) minimum(current nodeID) nodeID {
	for tree.nodes[current].left != nilID {
		current = tree.nodes[current].left
	}

	return current
}

// Delete removes one node holding key. It returns ErrKeyNotFound without
// touching the tree when the key is absent.
func (tree *Tree[K]) Delete(key K) error {
	z := tree.find(key)
	if z == nilID {
		return ErrKeyNotFound
	}

	// x is the node moving into the removed position, xParent is where it hangs.
	// x may be the sentinel, so its parent is tracked here instead of on the node.
	var x, xParent nodeID

	y := z
	removedColor := tree.colorOf(y)
	zn := tree.nodes[z]

	if zn.left == nilID {
		x = zn.right
		xParent = zn.parent
		tree.transplant(z, zn.right)
	} else if zn.right == nilID {
		x = zn.left
		xParent = zn.parent
		tree.transplant(z, zn.left)
	} else {
		// both children are present, the successor from the right subtree
		// takes the place and the color of the deleting node.
		y = tree.minimum(zn.right)
		removedColor = tree.colorOf(y)
		x = tree.nodes[y].right

		if tree.nodes[y].parent == z {
			xParent = y
		} else {
			xParent = tree.nodes[y].parent
			tree.transplant(y, x)
			tree.at(y).right = zn.right
			tree.at(zn.right).parent = y
		}

		tree.transplant(z, y)
		yn := tree.at(y)
		yn.left = zn.left
		yn.color = zn.color
		tree.at(zn.left).parent = y
	}

	tree.release(z)
	tree.size--

	if removedColor == Black {
		tree.deleteFixup(x, xParent)
	}

	return nil
}

// deleteFixup resolves the missing black at position x below parent.
func (tree *Tree[K]) deleteFixup(current, parent nodeID) {
	for current != tree.root && tree.colorOf(current) == Black {
		if current == tree.nodes[parent].left {
			sibling := tree.nodes[parent].right
			if tree.colorOf(sibling) == Red {
				tree.at(sibling).color = Black
				tree.at(parent).color = Red
				tree.rotateLeft(parent)
				sibling = tree.nodes[parent].right
			}

			sn := tree.nodes[sibling]
			// if both are black nodes
			if tree.colorOf(sn.left) == Black && tree.colorOf(sn.right) == Black {
				tree.at(sibling).color = Red
				current = parent
				parent = tree.nodes[current].parent
			} else {
				// only one of the child is black
				if tree.colorOf(sn.right) == Black {
					tree.at(sn.left).color = Black
					tree.at(sibling).color = Red
					tree.rotateRight(sibling)
					sibling = tree.nodes[parent].right
				}

				tree.at(sibling).color = tree.colorOf(parent)
				tree.at(parent).color = Black
				tree.at(tree.nodes[sibling].right).color = Black
				tree.rotateLeft(parent)
				current = tree.root
			}
		} else { // if current is right child
			sibling := tree.nodes[parent].left
			if tree.colorOf(sibling) == Red {
				tree.at(sibling).color = Black
				tree.at(parent).color = Red
				tree.rotateRight(parent)
				sibling = tree.nodes[parent].left
			}

			sn := tree.nodes[sibling]
			if tree.colorOf(sn.left) == Black && tree.colorOf(sn.right) == Black {
				tree.at(sibling).color = Red
				current = parent
				parent = tree.nodes[current].parent
			} else {
				// the left child of sibling is black, and right child is red
				if tree.colorOf(sn.left) == Black {
					tree.at(sn.right).color = Black
					tree.at(sibling).color = Red
					tree.rotateLeft(sibling)
					sibling = tree.nodes[parent].left
				}

				tree.at(sibling).color = tree.colorOf(parent)
				tree.at(parent).color = Black
				tree.at(tree.nodes[sibling].left).color = Black
				tree.rotateRight(parent)
				current = tree.root
			}
		}
	}

	if current != nilID {
		tree.at(current).color = Black
	}
}
