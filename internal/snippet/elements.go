package snippet

import (
	"strings"

	"github.com/dshills/liveedit/internal/document"
)

// Element is a node of a snippet template. Elements are immutable once
// built and may be inserted any number of times.
type Element interface {
	// Insert writes the element at the context's insertion position.
	Insert(ctx *InsertionContext)
}

// Text is literal text. Tabs become the document's indentation string and
// line breaks are re-indented to the line the snippet starts on.
type Text struct {
	Text string
}

// Insert implements Element.
func (t *Text) Insert(ctx *InsertionContext) {
	ctx.InsertText(t.Text)
}

// Container inserts its children in order.
type Container struct {
	Elements []Element
}

// Insert implements Element.
func (c *Container) Insert(ctx *InsertionContext) {
	for _, e := range c.Elements {
		e.Insert(ctx)
	}
}

// Caret marks where the caret goes when the snippet session ends with Enter
// or when the snippet has no active elements at all.
type Caret struct{}

// Insert implements Element.
func (*Caret) Insert(ctx *InsertionContext) {
	setCaretOnExit(ctx)
}

// setCaretOnExit anchors the insertion position and restores the caret there
// on the exit reasons that leave the user "done" with the snippet.
func setCaretOnExit(ctx *InsertionContext) {
	pos := ctx.Document().CreateAnchor(ctx.InsertionPosition(), document.BeforeInsertion, true)
	ctx.OnDeactivated(func(reason DeactivationReason) {
		if reason == ReturnPressed || reason == NoActiveElements {
			ctx.TextArea().SetCaret(pos.Offset())
			ctx.TextArea().ClearSelection()
		}
		pos.Release()
	})
}

// Selection inserts the text that was selected when insertion started,
// without its leading blanks. With nothing selected it acts as a Caret.
type Selection struct{}

// Insert implements Element.
func (*Selection) Insert(ctx *InsertionContext) {
	text := strings.TrimLeft(ctx.SelectedText(), " \t")
	if text == "" {
		setCaretOnExit(ctx)
		return
	}
	ctx.InsertText(text)
}

// Replaceable is an editable field. Text is the initial content.
type Replaceable struct {
	Text string
}

// Insert implements Element.
func (r *Replaceable) Insert(ctx *InsertionContext) {
	start := ctx.InsertionPosition()
	ctx.InsertText(r.Text)
	ctx.RegisterActiveElement(r, newReplaceableActive(ctx, start, ctx.InsertionPosition()))
}

// Bound mirrors the current text of Target, optionally through Transform.
// Target must be part of the same snippet.
type Bound struct {
	Target    *Replaceable
	Transform func(string) string
}

// Insert implements Element.
func (b *Bound) Insert(ctx *InsertionContext) {
	start := ctx.InsertionPosition()
	if target, ok := ctx.ActiveElement(b.Target).(*ReplaceableActive); ok {
		ctx.InsertText(b.convert(target.Text()))
	}
	ctx.RegisterActiveElement(b, newBoundActive(ctx, b, start, ctx.InsertionPosition()))
}

func (b *Bound) convert(s string) string {
	if b.Transform == nil {
		return s
	}
	return b.Transform(s)
}

// Anchor registers a named, zero-length position that can be looked up with
// InsertionContext.FindAnchor and filled in later.
type Anchor struct {
	Name string
}

// Insert implements Element.
func (a *Anchor) Insert(ctx *InsertionContext) {
	seg := ctx.Document().CreateAnchorSegment(ctx.InsertionPosition(), 0, document.BeforeInsertion, document.BeforeInsertion, true)
	ctx.RegisterActiveElement(a, &AnchorActive{name: a.Name, doc: ctx.Document(), seg: seg})
}
