package document

import (
	"sync/atomic"
	"unicode/utf8"
)

// RevisionID uniquely identifies a document revision.
// Each modification to the document creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}

// Document is a mutable, rune-indexed text buffer with anchors and change
// notifications.
type Document struct {
	// text is never modified in place; every edit allocates a new slice so
	// that Runes and Snapshot can hand out the old one.
	text     []rune
	revision RevisionID

	lineEnding    LineEnding
	lineEndingSet bool
	indentation   string

	anchors map[*Anchor]struct{}

	updateDepth int
	textDirty   bool

	changing       Listeners[Change]
	changed        Listeners[Change]
	textChanged    Listeners[struct{}]
	updateFinished Listeners[struct{}]
}

// New creates a document with initial content.
func New(text string, opts ...Option) *Document {
	d := &Document{
		text:        []rune(text),
		revision:    NewRevisionID(),
		indentation: "\t",
		anchors:     make(map[*Anchor]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if !d.lineEndingSet {
		d.lineEnding = DetectLineEnding(text)
	}
	return d
}

// Read Operations

// Len returns the number of characters in the document.
func (d *Document) Len() int {
	return len(d.text)
}

// Text returns the full document content.
func (d *Document) Text() string {
	return string(d.text)
}

// Runes returns the document content. The returned slice must not be
// modified; it remains a consistent view even after later edits.
func (d *Document) Runes() []rune {
	return d.text
}

// GetText returns length characters starting at offset.
// Returns "" if the span is not inside the document.
func (d *Document) GetText(offset, length int) string {
	if offset < 0 || length < 0 || offset+length > len(d.text) {
		return ""
	}
	return string(d.text[offset : offset+length])
}

// TextRange returns the text covered by r.
func (d *Document) TextRange(r Range) string {
	return d.GetText(r.Start, r.Len())
}

// RuneAt returns the character at offset.
func (d *Document) RuneAt(offset int) (rune, bool) {
	if offset < 0 || offset >= len(d.text) {
		return utf8.RuneError, false
	}
	return d.text[offset], true
}

// Revision returns the current revision ID.
func (d *Document) Revision() RevisionID {
	return d.revision
}

// LineEnding returns the line terminator used for generated text.
func (d *Document) LineEnding() LineEnding {
	return d.lineEnding
}

// Indentation returns the string one indentation level expands to.
func (d *Document) Indentation() string {
	return d.indentation
}

// LineStart returns the offset of the first character of the line containing offset.
func (d *Document) LineStart(offset int) int {
	offset = min(max(offset, 0), len(d.text))
	for offset > 0 {
		if c := d.text[offset-1]; c == '\n' || c == '\r' {
			break
		}
		offset--
	}
	return offset
}

// LineIndentation returns the leading spaces and tabs of the line containing offset.
func (d *Document) LineIndentation(offset int) string {
	start := d.LineStart(offset)
	end := start
	for end < len(d.text) && (d.text[end] == ' ' || d.text[end] == '\t') {
		end++
	}
	return string(d.text[start:end])
}

// Snapshot returns an immutable view of the current content.
func (d *Document) Snapshot() *Snapshot {
	return &Snapshot{text: d.text, revision: d.revision, lineEnding: d.lineEnding}
}

// Write Operations

// Insert inserts text at the given offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Replace(offset, 0, text)
}

// Remove deletes length characters starting at offset.
func (d *Document) Remove(offset, length int) error {
	return d.Replace(offset, length, "")
}

// Replace replaces length characters starting at offset with text.
func (d *Document) Replace(offset, length int, text string) error {
	if offset < 0 || offset > len(d.text) {
		return ErrOffsetOutOfRange
	}
	if length < 0 || offset+length > len(d.text) {
		return ErrRangeInvalid
	}
	if length == 0 && text == "" {
		return nil
	}

	inserted := []rune(text)
	c := Change{
		Offset:       offset,
		RemovedText:  string(d.text[offset : offset+length]),
		InsertedText: text,
	}

	d.updateDepth++
	d.changing.Emit(c)

	next := make([]rune, 0, len(d.text)-length+len(inserted))
	next = append(next, d.text[:offset]...)
	next = append(next, inserted...)
	next = append(next, d.text[offset+length:]...)
	d.text = next
	d.revision = NewRevisionID()

	for a := range d.anchors {
		a.update(c, length, len(inserted))
	}
	d.textDirty = true

	d.changed.Emit(c)
	d.endUpdate()
	return nil
}

// Atomic Updates

// UpdateScope groups edits into one logical update. Use with defer:
//
//	defer doc.RunUpdate().End()
type UpdateScope struct {
	doc    *Document
	active bool
}

// RunUpdate starts an update scope. Scopes nest; notifications that are
// coalesced per update fire when the outermost scope ends.
func (d *Document) RunUpdate() *UpdateScope {
	d.updateDepth++
	return &UpdateScope{doc: d, active: true}
}

// End ends the update scope.
// Safe to call multiple times; only the first call has effect.
func (s *UpdateScope) End() {
	if s.active {
		s.active = false
		s.doc.endUpdate()
	}
}

// InUpdate reports whether an update scope is open.
func (d *Document) InUpdate() bool {
	return d.updateDepth > 0
}

func (d *Document) endUpdate() {
	d.updateDepth--
	if d.updateDepth > 0 {
		return
	}
	if d.textDirty {
		d.textDirty = false
		d.textChanged.Emit(struct{}{})
	}
	d.updateFinished.Emit(struct{}{})
}

// Anchors

// CreateAnchor creates an anchor at offset, clamped to the document bounds.
func (d *Document) CreateAnchor(offset int, movement MovementType, survivesDeletion bool) *Anchor {
	a := &Anchor{
		doc:              d,
		offset:           min(max(offset, 0), len(d.text)),
		movement:         movement,
		survivesDeletion: survivesDeletion,
	}
	d.anchors[a] = struct{}{}
	return a
}

// CreateAnchorSegment creates a live range covering [offset, offset+length).
func (d *Document) CreateAnchorSegment(offset, length int, startMovement, endMovement MovementType, survivesDeletion bool) *AnchorSegment {
	return &AnchorSegment{
		start: d.CreateAnchor(offset, startMovement, survivesDeletion),
		end:   d.CreateAnchor(offset+length, endMovement, survivesDeletion),
	}
}

// AnchorCount returns the number of anchors currently tracked.
func (d *Document) AnchorCount() int {
	return len(d.anchors)
}

// Notifications

// OnChanging registers fn to run before each change is applied.
func (d *Document) OnChanging(fn func(Change)) *Subscription {
	return d.changing.Add(fn)
}

// OnChanged registers fn to run after each change is applied and anchors
// have moved.
func (d *Document) OnChanged(fn func(Change)) *Subscription {
	return d.changed.Add(fn)
}

// OnTextChanged registers fn to run once when an update that modified the
// text finishes.
func (d *Document) OnTextChanged(fn func()) *Subscription {
	return d.textChanged.Add(func(struct{}) { fn() })
}

// OnUpdateFinished registers fn to run whenever the outermost update ends,
// whether or not the text changed.
func (d *Document) OnUpdateFinished(fn func()) *Subscription {
	return d.updateFinished.Add(func(struct{}) { fn() })
}
