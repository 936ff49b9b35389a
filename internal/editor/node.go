package editor

// Kind tags the node variants of the document tree. Block commands and the
// renderer dispatch on it rather than on concrete types.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindText
	KindImage
	KindHardBreak
)

// Marks carries the inline formatting of a text node. A zero Marks value
// means plain text.
type Marks struct {
	Bold   bool
	Italic bool
	Link   string // href, empty when the text is not linked
}

// Node is one tagged-variant node. Which fields are meaningful depends on
// Kind: Level for headings, Text/Marks for text, Src/Alt for images,
// Children for every container variant.
type Node struct {
	Kind     Kind
	Level    int
	Text     string
	Marks    Marks
	Src      string
	Alt      string
	Children []*Node
}

// Document is an ordered tree of blocks. The zero value is an empty document.
type Document struct {
	Blocks []*Node
}

func NewDocument() *Document {
	return &Document{}
}

// IsEmpty reports whether the document has no visible content.
func (d *Document) IsEmpty() bool {
	return d.PlainText() == "" && !d.hasImage()
}

func (d *Document) hasImage() bool {
	found := false
	d.walk(func(n *Node) {
		if n.Kind == KindImage {
			found = true
		}
	})
	return found
}

// walk visits every node depth-first.
func (d *Document) walk(fn func(*Node)) {
	var visit func(n *Node)
	visit = func(n *Node) {
		fn(n)
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, b := range d.Blocks {
		visit(b)
	}
}

// textNode builds a plain text node.
func textNode(s string, m Marks) *Node {
	return &Node{Kind: KindText, Text: s, Marks: m}
}

// paragraphOf wraps inline nodes in a paragraph.
func paragraphOf(children ...*Node) *Node {
	return &Node{Kind: KindParagraph, Children: children}
}
