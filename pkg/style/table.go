package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/c9s/rbtree/pkg/rbtree"
)

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsYellowWhiteOnBlack,
	}
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return &style
}

// RenderDumpTable writes the pre-order dump as a table, one row per node.
func RenderDumpTable[K any](w io.Writer, title string, entries []rbtree.DumpEntry[K]) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*NewDefaultTableStyle())
	t.SetTitle(title)
	t.AppendHeader(table.Row{"#", "Depth", "Branch", "Key", "Color"})

	for i, e := range entries {
		key := strings.Repeat("  ", e.Depth) + fmt.Sprint(e.Key)
		t.AppendRow(table.Row{i + 1, e.Depth, e.Branch, key, e.Color})
	}

	t.AppendFooter(table.Row{"", "", "", "Total", len(entries)})
	t.Render()
}
