package style

import (
	"github.com/fatih/color"

	"github.com/c9s/rbtree/pkg/rbtree"
)

var (
	redLabel   = color.New(color.FgHiRed, color.Bold).SprintFunc()
	blackLabel = color.New(color.FgHiWhite, color.BgBlack).SprintFunc()
)

// NodeColorLabel returns the color name of a node, highlighted when the
// output supports it.
func NodeColorLabel(c rbtree.Color) string {
	if c == rbtree.Red {
		return redLabel(c.String())
	}

	return blackLabel(c.String())
}
