package editor

import (
	"strings"

	"golang.org/x/net/html"
)

// Parse builds a document from markup. Parsing is permissive: unknown
// container elements are unwrapped into their children, unrecognized leaf
// elements are dropped, and malformed input yields whatever tree the
// tokenizer can recover. It never fails.
func Parse(markup string) *Document {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return NewDocument()
	}
	body := findBody(root)
	if body == nil {
		return NewDocument()
	}
	return &Document{Blocks: parseBlocks(body)}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func parseBlocks(parent *html.Node) []*Node {
	var blocks []*Node
	var pending []*Node // inline nodes awaiting a wrapping paragraph

	flush := func() {
		if len(pending) > 0 {
			blocks = append(blocks, paragraphOf(mergeInline(pending)...))
			pending = nil
		}
	}

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				pending = append(pending, textNode(c.Data, Marks{}))
			}
		case html.ElementNode:
			switch c.Data {
			case "p":
				flush()
				blocks = append(blocks, paragraphOf(parseInline(c, Marks{})...))
			case "h1", "h2", "h3", "h4", "h5", "h6":
				flush()
				blocks = append(blocks, &Node{Kind: KindHeading, Level: clampHeading(c.Data), Children: parseInline(c, Marks{})})
			case "ul":
				flush()
				blocks = append(blocks, &Node{Kind: KindBulletList, Children: parseListItems(c)})
			case "ol":
				flush()
				blocks = append(blocks, &Node{Kind: KindOrderedList, Children: parseListItems(c)})
			case "blockquote":
				flush()
				blocks = append(blocks, &Node{Kind: KindBlockquote, Children: parseBlocks(c)})
			case "img":
				flush()
				blocks = append(blocks, imageNode(c))
			case "br":
				pending = append(pending, &Node{Kind: KindHardBreak})
			case "script", "style", "iframe", "object", "embed", "form":
				// dropped outright
			case "strong", "b", "em", "i", "a", "span", "u", "s", "code", "mark", "small", "sub", "sup":
				pending = append(pending, parseInline(c, Marks{})...)
			default:
				// unknown container: unwrap into its children
				flush()
				blocks = append(blocks, parseBlocks(c)...)
			}
		}
	}
	flush()
	return blocks
}

func parseListItems(list *html.Node) []*Node {
	var items []*Node
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			blocks := parseBlocks(c)
			if len(blocks) == 0 {
				blocks = []*Node{paragraphOf()}
			}
			items = append(items, &Node{Kind: KindListItem, Children: blocks})
		}
	}
	return items
}

func parseInline(parent *html.Node, marks Marks) []*Node {
	var out []*Node
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				out = append(out, textNode(c.Data, marks))
			}
		case html.ElementNode:
			m := marks
			switch c.Data {
			case "strong", "b":
				m.Bold = true
				out = append(out, parseInline(c, m)...)
			case "em", "i":
				m.Italic = true
				out = append(out, parseInline(c, m)...)
			case "a":
				m.Link = attr(c, "href")
				out = append(out, parseInline(c, m)...)
			case "br":
				out = append(out, &Node{Kind: KindHardBreak})
			case "img":
				out = append(out, imageNode(c))
			case "script", "style", "iframe", "object", "embed":
				// dropped
			default:
				// unknown inline wrapper: keep its text, forget the wrapper
				out = append(out, parseInline(c, m)...)
			}
		}
	}
	return mergeInline(out)
}

// mergeInline joins adjacent text nodes carrying identical marks and drops
// whitespace-only strays, so a parse/render round trip is stable.
func mergeInline(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.Kind == KindText {
			if strings.TrimSpace(n.Text) == "" && len(out) == 0 {
				continue
			}
			if len(out) > 0 && out[len(out)-1].Kind == KindText && out[len(out)-1].Marks == n.Marks {
				out[len(out)-1].Text += n.Text
				continue
			}
		}
		out = append(out, n)
	}
	return out
}

func clampHeading(tag string) int {
	switch tag {
	case "h1", "h2":
		return 2
	default:
		return 3
	}
}

func imageNode(c *html.Node) *Node {
	return &Node{Kind: KindImage, Src: attr(c, "src"), Alt: attr(c, "alt")}
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
