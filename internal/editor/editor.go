package editor

import "sync"

// maxHistory bounds the undo stack.
const maxHistory = 100

// Editor owns a document and exposes the command surface. All mutation goes
// through commands or SetContent; every non-silent mutation re-renders and
// fires the change callback with the new markup.
//
// Selection is a top-level block range. Commands act on the selected blocks
// (marks act on the text inside them). SetContent resets the selection to
// cover the whole document.
//
// The editor is shared between the composing goroutine and the link
// detector's debounce timer goroutine, so document, selection and history
// access all happen under one mutex. The change callback is invoked outside
// the lock: it is allowed to call back into the editor.
type Editor struct {
	mu       sync.Mutex
	doc      *Document
	selFrom  int
	selTo    int
	history  []string
	histPos  int
	onChange func(markup string)
}

func New() *Editor {
	return &Editor{doc: NewDocument(), history: []string{""}}
}

// OnChange registers the content-changed callback. Only one is supported;
// the link detector subscribes here.
func (e *Editor) OnChange(fn func(markup string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onChange = fn
}

// Content renders the current document to markup.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.HTML()
}

// SetContent replaces the document from markup. Malformed markup is parsed
// permissively and never fails. With silent=true internal state is updated
// without firing the change callback; the link detector's rewrite uses this
// so its own edit does not re-trigger detection.
func (e *Editor) SetContent(markup string, silent bool) {
	e.mu.Lock()
	e.doc = Parse(markup)
	e.selectAll()
	e.push()
	cb, cur := e.onChange, e.doc.HTML()
	e.mu.Unlock()
	if !silent && cb != nil {
		cb(cur)
	}
}

// Select sets the block selection range (inclusive, clamped).
func (e *Editor) Select(from, to int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setSelection(from, to)
}

func (e *Editor) setSelection(from, to int) {
	n := len(e.doc.Blocks)
	if n == 0 {
		e.selFrom, e.selTo = 0, -1
		return
	}
	e.selFrom = clamp(from, 0, n-1)
	e.selTo = clamp(to, e.selFrom, n-1)
}

func (e *Editor) selectAll() {
	e.selFrom, e.selTo = 0, len(e.doc.Blocks)-1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Editor) push() {
	cur := e.doc.HTML()
	if e.history[e.histPos] == cur {
		return
	}
	e.history = append(e.history[:e.histPos+1], cur)
	if len(e.history) > maxHistory {
		e.history = e.history[1:]
	}
	e.histPos = len(e.history) - 1
}

// apply runs a mutation under the lock and, when the serialized document
// changed, records history and notifies after releasing it.
func (e *Editor) apply(mutate func()) {
	e.mu.Lock()
	before := e.doc.HTML()
	mutate()
	after := e.doc.HTML()
	if after == before {
		e.mu.Unlock()
		return
	}
	e.push()
	cb := e.onChange
	e.mu.Unlock()
	if cb != nil {
		cb(after)
	}
}

func (e *Editor) selected() []*Node {
	if e.selTo < e.selFrom || len(e.doc.Blocks) == 0 {
		return nil
	}
	return e.doc.Blocks[e.selFrom : e.selTo+1]
}

// ToggleBold flips the bold mark on every text node in the selection.
// A per-node flip makes the command its own inverse.
func (e *Editor) ToggleBold() {
	e.apply(func() {
		for _, blk := range e.selected() {
			eachText(blk, func(n *Node) { n.Marks.Bold = !n.Marks.Bold })
		}
	})
}

// ToggleItalic flips the italic mark on every text node in the selection.
func (e *Editor) ToggleItalic() {
	e.apply(func() {
		for _, blk := range e.selected() {
			eachText(blk, func(n *Node) { n.Marks.Italic = !n.Marks.Italic })
		}
	})
}

// ToggleHeading swaps paragraph and heading(level) on each selected block.
// Headings of a different level and non-text blocks are left alone, keeping
// the command an involution.
func (e *Editor) ToggleHeading(level int) {
	if level != 2 && level != 3 {
		return
	}
	e.apply(func() {
		for _, blk := range e.selected() {
			switch {
			case blk.Kind == KindParagraph:
				blk.Kind = KindHeading
				blk.Level = level
			case blk.Kind == KindHeading && blk.Level == level:
				blk.Kind = KindParagraph
				blk.Level = 0
			}
		}
	})
}

// ToggleBulletList wraps an all-paragraph selection into one bullet list, or
// unwraps an all-bullet-list selection back into its blocks. Mixed
// selections are a no-op.
func (e *Editor) ToggleBulletList() { e.toggleList(KindBulletList) }

// ToggleOrderedList mirrors ToggleBulletList for ordered lists.
func (e *Editor) ToggleOrderedList() { e.toggleList(KindOrderedList) }

func (e *Editor) toggleList(kind Kind) {
	e.apply(func() {
		sel := e.selected()
		if len(sel) == 0 {
			return
		}
		if allKind(sel, kind) {
			e.unwrapSelection()
			return
		}
		for _, blk := range sel {
			if blk.Kind != KindParagraph && blk.Kind != KindHeading {
				return
			}
		}
		items := make([]*Node, len(sel))
		for i, blk := range sel {
			items[i] = &Node{Kind: KindListItem, Children: []*Node{blk}}
		}
		e.replaceSelection([]*Node{{Kind: kind, Children: items}})
	})
}

// ToggleBlockquote wraps the selection into a blockquote, or unwraps when
// every selected block already is one.
func (e *Editor) ToggleBlockquote() {
	e.apply(func() {
		sel := e.selected()
		if len(sel) == 0 {
			return
		}
		if allKind(sel, KindBlockquote) {
			e.unwrapSelection()
			return
		}
		wrapped := make([]*Node, len(sel))
		copy(wrapped, sel)
		e.replaceSelection([]*Node{{Kind: KindBlockquote, Children: wrapped}})
	})
}

// unwrapSelection dissolves each selected container into the blocks it holds.
func (e *Editor) unwrapSelection() {
	var produced []*Node
	for _, blk := range e.selected() {
		switch blk.Kind {
		case KindBulletList, KindOrderedList:
			for _, li := range blk.Children {
				produced = append(produced, li.Children...)
			}
		case KindBlockquote:
			produced = append(produced, blk.Children...)
		default:
			produced = append(produced, blk)
		}
	}
	e.replaceSelection(produced)
}

func (e *Editor) replaceSelection(blocks []*Node) {
	head := e.doc.Blocks[:e.selFrom]
	tail := e.doc.Blocks[e.selTo+1:]
	out := make([]*Node, 0, len(head)+len(blocks)+len(tail))
	out = append(out, head...)
	out = append(out, blocks...)
	out = append(out, tail...)
	e.doc.Blocks = out
	if len(blocks) == 0 {
		e.setSelection(e.selFrom, e.selFrom)
		return
	}
	e.selTo = e.selFrom + len(blocks) - 1
}

// InsertText appends text to the end of the document, creating a paragraph
// when needed.
func (e *Editor) InsertText(s string) {
	if s == "" {
		return
	}
	e.apply(func() {
		n := len(e.doc.Blocks)
		if n == 0 || !acceptsInline(e.doc.Blocks[n-1].Kind) {
			e.doc.Blocks = append(e.doc.Blocks, paragraphOf(textNode(s, Marks{})))
			e.selectAll()
			return
		}
		last := e.doc.Blocks[n-1]
		last.Children = mergeInline(append(last.Children, textNode(s, Marks{})))
	})
}

// InsertImage appends an image block.
func (e *Editor) InsertImage(src, alt string) {
	if src == "" {
		return
	}
	e.apply(func() {
		e.doc.Blocks = append(e.doc.Blocks, &Node{Kind: KindImage, Src: src, Alt: alt})
		e.selectAll()
	})
}

func acceptsInline(k Kind) bool {
	return k == KindParagraph || k == KindHeading
}

func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.histPos > 0
}

func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.histPos < len(e.history)-1
}

// Undo restores the previous recorded state and notifies.
func (e *Editor) Undo() {
	e.mu.Lock()
	if e.histPos == 0 {
		e.mu.Unlock()
		return
	}
	e.histPos--
	e.restore()
}

// Redo re-applies an undone state and notifies.
func (e *Editor) Redo() {
	e.mu.Lock()
	if e.histPos >= len(e.history)-1 {
		e.mu.Unlock()
		return
	}
	e.histPos++
	e.restore()
}

// restore rebuilds the document from history[histPos]; the caller holds the
// lock and restore releases it before notifying.
func (e *Editor) restore() {
	cur := e.history[e.histPos]
	e.doc = Parse(cur)
	e.selectAll()
	cb := e.onChange
	e.mu.Unlock()
	if cb != nil {
		cb(cur)
	}
}

func allKind(nodes []*Node, k Kind) bool {
	for _, n := range nodes {
		if n.Kind != k {
			return false
		}
	}
	return len(nodes) > 0
}

func eachText(n *Node, fn func(*Node)) {
	if n.Kind == KindText {
		fn(n)
		return
	}
	for _, c := range n.Children {
		eachText(c, fn)
	}
}
