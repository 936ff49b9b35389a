package editor

import (
	"fmt"
	"html"
	"strings"
)

// HTML serializes the document to markup. Serialization is lossless for the
// known node set: Parse(doc.HTML()) yields an equivalent tree.
func (d *Document) HTML() string {
	var b strings.Builder
	for _, blk := range d.Blocks {
		renderBlock(&b, blk)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindParagraph:
		b.WriteString("<p>")
		renderInline(b, n.Children)
		b.WriteString("</p>")
	case KindHeading:
		fmt.Fprintf(b, "<h%d>", n.Level)
		renderInline(b, n.Children)
		fmt.Fprintf(b, "</h%d>", n.Level)
	case KindBulletList:
		b.WriteString("<ul>")
		for _, li := range n.Children {
			renderBlock(b, li)
		}
		b.WriteString("</ul>")
	case KindOrderedList:
		b.WriteString("<ol>")
		for _, li := range n.Children {
			renderBlock(b, li)
		}
		b.WriteString("</ol>")
	case KindListItem:
		b.WriteString("<li>")
		for _, c := range n.Children {
			renderBlock(b, c)
		}
		b.WriteString("</li>")
	case KindBlockquote:
		b.WriteString("<blockquote>")
		for _, c := range n.Children {
			renderBlock(b, c)
		}
		b.WriteString("</blockquote>")
	default:
		// inline node at block level (images pasted at top level)
		renderInline(b, []*Node{n})
	}
}

func renderInline(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			renderText(b, n)
		case KindImage:
			b.WriteString(`<img src="` + html.EscapeString(n.Src) + `"`)
			if n.Alt != "" {
				b.WriteString(` alt="` + html.EscapeString(n.Alt) + `"`)
			}
			b.WriteString(">")
		case KindHardBreak:
			b.WriteString("<br>")
		default:
			renderInline(b, n.Children)
		}
	}
}

// mark nesting order is fixed (link > bold > italic) so that equal trees
// always produce byte-equal markup.
func renderText(b *strings.Builder, n *Node) {
	open, close := "", ""
	if n.Marks.Link != "" {
		open += `<a href="` + html.EscapeString(n.Marks.Link) + `">`
		close = "</a>" + close
	}
	if n.Marks.Bold {
		open += "<strong>"
		close = "</strong>" + close
	}
	if n.Marks.Italic {
		open += "<em>"
		close = "</em>" + close
	}
	b.WriteString(open)
	b.WriteString(html.EscapeString(n.Text))
	b.WriteString(close)
}

// PlainText flattens the document to text, separating blocks with newlines.
// The link detector scans this form.
func (d *Document) PlainText() string {
	var parts []string
	for _, blk := range d.Blocks {
		t := strings.TrimSpace(nodeText(blk))
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func nodeText(n *Node) string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for i, c := range n.Children {
		if i > 0 && isBlockKind(c.Kind) {
			b.WriteString("\n")
		}
		b.WriteString(nodeText(c))
	}
	return b.String()
}

func isBlockKind(k Kind) bool {
	switch k {
	case KindParagraph, KindHeading, KindBulletList, KindOrderedList, KindListItem, KindBlockquote:
		return true
	}
	return false
}
