// Package textarea provides the editing surface snippet and search sessions
// drive: a caret, a selection and a stack of input overlays on top of a
// document.
package textarea

import (
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/liveedit/internal/document"
)

// InputHandler is an overlay that gets the first chance at key events.
type InputHandler interface {
	// Attach is called when the handler is pushed onto a text area.
	Attach(area *TextArea)
	// Detach is called when the handler is removed from a text area.
	Detach(area *TextArea)
	// HandleKey returns true if the event was consumed.
	HandleKey(ev *tcell.EventKey) bool
}

// TextArea couples a document with a caret, a selection and input overlays.
// Caret and selection follow document edits.
type TextArea struct {
	doc       *document.Document
	caret     int
	selection Selection
	overlays  []InputHandler
	sub       *document.Subscription
}

// New creates a text area over doc with the caret at offset 0.
func New(doc *document.Document) *TextArea {
	a := &TextArea{doc: doc}
	a.sub = doc.OnChanged(a.onChanged)
	return a
}

// Document returns the edited document.
func (a *TextArea) Document() *document.Document {
	return a.doc
}

// Caret returns the caret offset.
func (a *TextArea) Caret() int {
	return a.caret
}

// SetCaret moves the caret, clamped to the document. The selection is kept.
func (a *TextArea) SetCaret(offset int) {
	a.caret = min(max(offset, 0), a.doc.Len())
}

// Selection returns the current selection.
func (a *TextArea) Selection() Selection {
	return a.selection
}

// SetSelection replaces the selection, clamped to the document.
func (a *TextArea) SetSelection(sel Selection) {
	a.selection = sel.clamp(a.doc.Len())
}

// ClearSelection collapses the selection onto the caret.
func (a *TextArea) ClearSelection() {
	a.selection = Selection{Anchor: a.caret, Head: a.caret}
}

// Select selects r and puts the caret at its end.
func (a *TextArea) Select(r document.Range) {
	a.SetSelection(NewRangeSelection(r))
	a.SetCaret(r.End)
}

// SelectedText returns the selected text, or "" if nothing is selected.
func (a *TextArea) SelectedText() string {
	if a.selection.IsEmpty() {
		return ""
	}
	return a.doc.TextRange(a.selection.Range())
}

// ReplaceSelection replaces the selection (or inserts at the caret) with
// text and leaves the caret after it.
func (a *TextArea) ReplaceSelection(text string) error {
	r := document.Range{Start: a.caret, End: a.caret}
	if !a.selection.IsEmpty() {
		r = a.selection.Range()
	}
	if err := a.doc.Replace(r.Start, r.Len(), text); err != nil {
		return err
	}
	a.SetCaret(r.Start + len([]rune(text)))
	a.ClearSelection()
	return nil
}

// Overlays

// PushOverlay installs h on top of the overlay stack.
func (a *TextArea) PushOverlay(h InputHandler) {
	a.overlays = append(a.overlays, h)
	h.Attach(a)
}

// RemoveOverlay removes h from the stack and detaches it.
// Returns false if h was not installed.
func (a *TextArea) RemoveOverlay(h InputHandler) bool {
	i := slices.Index(a.overlays, h)
	if i < 0 {
		return false
	}
	a.overlays = slices.Delete(a.overlays, i, i+1)
	h.Detach(a)
	return true
}

// Overlays returns the installed overlays, bottom first.
func (a *TextArea) Overlays() []InputHandler {
	return slices.Clone(a.overlays)
}

// Close removes all overlays and stops following the document.
func (a *TextArea) Close() {
	for len(a.overlays) > 0 {
		a.RemoveOverlay(a.overlays[len(a.overlays)-1])
	}
	a.sub.Cancel()
}

func (a *TextArea) onChanged(c document.Change) {
	a.caret = min(c.NewOffset(a.caret, document.AfterInsertion), a.doc.Len())
	a.selection = a.selection.transform(c).clamp(a.doc.Len())
}

// Input

// HandleKey offers ev to the overlays from the top of the stack down and
// falls back to plain editing. Returns true if the event was consumed.
func (a *TextArea) HandleKey(ev *tcell.EventKey) bool {
	hs := slices.Clone(a.overlays)
	for i := len(hs) - 1; i >= 0; i-- {
		if hs[i].HandleKey(ev) {
			return true
		}
	}
	return a.defaultKey(ev)
}

func (a *TextArea) defaultKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		return a.ReplaceSelection(string(ev.Rune())) == nil
	case tcell.KeyEnter:
		return a.ReplaceSelection(a.doc.LineEnding().Sequence()) == nil
	case tcell.KeyTab:
		return a.ReplaceSelection(a.doc.Indentation()) == nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if !a.selection.IsEmpty() {
			return a.ReplaceSelection("") == nil
		}
		if a.caret == 0 {
			return false
		}
		return a.doc.Remove(a.caret-1, 1) == nil
	case tcell.KeyDelete:
		if !a.selection.IsEmpty() {
			return a.ReplaceSelection("") == nil
		}
		if a.caret >= a.doc.Len() {
			return false
		}
		return a.doc.Remove(a.caret, 1) == nil
	case tcell.KeyLeft:
		a.SetCaret(a.caret - 1)
		a.ClearSelection()
		return true
	case tcell.KeyRight:
		a.SetCaret(a.caret + 1)
		a.ClearSelection()
		return true
	}
	return false
}
