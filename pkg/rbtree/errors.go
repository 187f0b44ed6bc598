package rbtree

import "github.com/pkg/errors"

// ErrKeyNotFound is returned by Search and Delete when no node holds the key.
// It is a negative result, the tree is left untouched.
var ErrKeyNotFound = errors.New("key not found")
