package snippet

import (
	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
)

// ActiveElement is the runtime counterpart of a template element during one
// insertion.
type ActiveElement interface {
	// OnInsertionCompleted runs once every element has been inserted.
	OnInsertionCompleted()
	// Deactivate releases the element's subscriptions and anchors.
	Deactivate(reason DeactivationReason)
	// IsEditable reports whether the element is a tab stop.
	IsEditable() bool
	// Range returns the element's current range, or false once its anchors
	// were deleted or released.
	Range() (document.Range, bool)
}

// ReplaceableActive is an editable field.
type ReplaceableActive struct {
	ctx        *InsertionContext
	start, end int
	seg        *document.AnchorSegment
	text       string
	sub        *document.Subscription
	changed    document.Listeners[string]
}

func newReplaceableActive(ctx *InsertionContext, start, end int) *ReplaceableActive {
	return &ReplaceableActive{ctx: ctx, start: start, end: end}
}

// OnInsertionCompleted implements ActiveElement.
func (r *ReplaceableActive) OnInsertionCompleted() {
	doc := r.ctx.Document()
	r.seg = document.NewAnchorSegment(
		doc.CreateAnchor(r.start, document.BeforeInsertion, false),
		doc.CreateAnchor(r.end, document.AfterInsertion, false),
	)
	r.text = r.Text()
	r.sub = doc.OnTextChanged(r.onTextChanged)
}

func (r *ReplaceableActive) onTextChanged() {
	text := r.Text()
	if text == r.text {
		return
	}
	r.text = text
	r.changed.Emit(text)
}

// Deactivate implements ActiveElement.
func (r *ReplaceableActive) Deactivate(DeactivationReason) {
	r.sub.Cancel()
	if r.seg != nil {
		r.seg.Release()
	}
}

// IsEditable implements ActiveElement.
func (r *ReplaceableActive) IsEditable() bool {
	return true
}

// Range implements ActiveElement.
func (r *ReplaceableActive) Range() (document.Range, bool) {
	if r.seg == nil {
		return document.Range{Start: r.start, End: r.end}, true
	}
	return r.seg.Range()
}

// Text returns the current field text, or "" if the field was deleted.
func (r *ReplaceableActive) Text() string {
	rng, ok := r.Range()
	if !ok {
		return ""
	}
	return r.ctx.Document().TextRange(rng)
}

// SetText replaces the field text.
func (r *ReplaceableActive) SetText(text string) error {
	rng, ok := r.Range()
	if !ok {
		return document.ErrRangeInvalid
	}
	return r.ctx.Document().Replace(rng.Start, rng.Len(), text)
}

// OnTextChanged registers fn to run with the new text whenever the field
// text changes.
func (r *ReplaceableActive) OnTextChanged(fn func(string)) *document.Subscription {
	return r.changed.Add(fn)
}

// BoundActive mirrors a ReplaceableActive.
type BoundActive struct {
	ctx        *InsertionContext
	owner      *Bound
	start, end int
	seg        *document.AnchorSegment
	target     *ReplaceableActive
	sub        *document.Subscription
}

func newBoundActive(ctx *InsertionContext, owner *Bound, start, end int) *BoundActive {
	return &BoundActive{ctx: ctx, owner: owner, start: start, end: end}
}

// OnInsertionCompleted implements ActiveElement.
func (b *BoundActive) OnInsertionCompleted() {
	b.seg = b.ctx.Document().CreateAnchorSegment(b.start, b.end-b.start, document.BeforeInsertion, document.BeforeInsertion, true)
	target, ok := b.ctx.ActiveElement(b.owner.Target).(*ReplaceableActive)
	if !ok {
		return
	}
	b.target = target
	b.sub = target.OnTextChanged(func(string) { b.sync() })
}

// sync copies the target text. It does nothing while the two ranges
// overlap or touch: replacing the mirror would then also edit the target
// and the two would keep feeding each other.
func (b *BoundActive) sync() {
	tr, ok := b.target.Range()
	if !ok {
		return
	}
	br, ok := b.seg.Range()
	if !ok || br.Touches(tr) {
		return
	}
	text := b.owner.convert(b.target.Text())
	doc := b.ctx.Document()
	if doc.TextRange(br) == text {
		return
	}
	if err := doc.Replace(br.Start, br.Len(), text); err != nil {
		b.ctx.log.Warn("bound element sync failed", logging.FieldError, err)
		return
	}
	if br.Len() == 0 {
		// An empty anchor pair does not grow around text inserted at it.
		b.seg.Release()
		b.seg = doc.CreateAnchorSegment(br.Start, len([]rune(text)), document.BeforeInsertion, document.BeforeInsertion, true)
	}
}

// Deactivate implements ActiveElement.
func (b *BoundActive) Deactivate(DeactivationReason) {
	b.sub.Cancel()
	if b.seg != nil {
		b.seg.Release()
	}
}

// IsEditable implements ActiveElement.
func (b *BoundActive) IsEditable() bool {
	return false
}

// Range implements ActiveElement.
func (b *BoundActive) Range() (document.Range, bool) {
	if b.seg == nil {
		return document.Range{Start: b.start, End: b.end}, true
	}
	return b.seg.Range()
}

// Text returns the mirrored text as it currently appears in the document.
func (b *BoundActive) Text() string {
	rng, ok := b.Range()
	if !ok {
		return ""
	}
	return b.ctx.Document().TextRange(rng)
}

// AnchorActive is a named position inside an inserted snippet.
type AnchorActive struct {
	name string
	doc  *document.Document
	seg  *document.AnchorSegment
}

// Name returns the anchor name.
func (a *AnchorActive) Name() string {
	return a.name
}

// OnInsertionCompleted implements ActiveElement.
func (a *AnchorActive) OnInsertionCompleted() {}

// Deactivate implements ActiveElement.
func (a *AnchorActive) Deactivate(DeactivationReason) {
	a.seg.Release()
}

// IsEditable implements ActiveElement.
func (a *AnchorActive) IsEditable() bool {
	return false
}

// Range implements ActiveElement.
func (a *AnchorActive) Range() (document.Range, bool) {
	return a.seg.Range()
}

// Text returns the text between the anchor's bounds.
func (a *AnchorActive) Text() string {
	rng, ok := a.seg.Range()
	if !ok {
		return ""
	}
	return a.doc.TextRange(rng)
}

// SetText replaces the text between the anchor's bounds. An empty anchor is
// widened to cover the new text.
func (a *AnchorActive) SetText(text string) error {
	rng, ok := a.seg.Range()
	if !ok {
		return document.ErrRangeInvalid
	}
	if err := a.doc.Replace(rng.Start, rng.Len(), text); err != nil {
		return err
	}
	if rng.Len() == 0 {
		a.seg.Release()
		a.seg = a.doc.CreateAnchorSegment(rng.Start, len([]rune(text)), document.BeforeInsertion, document.BeforeInsertion, true)
	}
	return nil
}
