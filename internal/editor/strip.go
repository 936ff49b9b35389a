package editor

import "strings"

// StripURL removes every occurrence of url from the markup: raw-text
// occurrences inside text nodes and whole link-marked nodes whose href and
// visible text are the URL itself (the editor may have auto-linkified it).
// Matching is text-equivalent — the markup is parsed, rewritten on the tree
// and re-serialized, so unrelated markup cannot be corrupted by substring
// splicing. This is the one sanctioned external rewrite; callers feed the
// result back through SetContent with silent=true.
func StripURL(markup, url string) string {
	if url == "" {
		return markup
	}
	doc := Parse(markup)
	RemoveURL(doc, url)
	return doc.HTML()
}

// RemoveURL rewrites the tree in place.
func RemoveURL(d *Document, url string) {
	d.Blocks = removeFromBlocks(d.Blocks, url)
}

func removeFromBlocks(blocks []*Node, url string) []*Node {
	out := blocks[:0]
	for _, blk := range blocks {
		if keep := removeFromNode(blk, url); keep {
			out = append(out, blk)
		}
	}
	return out
}

// removeFromNode prunes url occurrences below n and reports whether the node
// still carries content worth keeping.
func removeFromNode(n *Node, url string) bool {
	switch n.Kind {
	case KindText:
		if n.Marks.Link == url && strings.TrimSpace(n.Text) == url {
			return false
		}
		if strings.Contains(n.Text, url) {
			n.Text = strings.TrimSpace(collapseSpaces(strings.ReplaceAll(n.Text, url, "")))
			if n.Text == "" {
				return false
			}
		}
		return true
	case KindImage, KindHardBreak:
		return true
	}

	kept := n.Children[:0]
	for _, c := range n.Children {
		if removeFromNode(c, url) {
			kept = append(kept, c)
		}
	}
	n.Children = kept

	// containers that lost all content disappear with the URL
	switch n.Kind {
	case KindParagraph, KindHeading, KindListItem, KindBlockquote, KindBulletList, KindOrderedList:
		return len(n.Children) > 0
	}
	return true
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
