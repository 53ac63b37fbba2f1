package snippet

import (
	"slices"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/liveedit/internal/textarea"
)

// Navigator is the input overlay of an interactive snippet. Tab and Backtab
// cycle through the editable elements, Enter and Escape end the session.
// Other keys fall through to normal editing.
type Navigator struct {
	ctx *InsertionContext
}

// Context returns the insertion context the navigator drives.
func (n *Navigator) Context() *InsertionContext {
	return n.ctx
}

// Attach selects the first editable element.
func (n *Navigator) Attach(*textarea.TextArea) {
	n.selectElement(FindNextEditable(n.ctx.elements, -1, false))
}

// Detach ends the session unless it is already ending.
func (n *Navigator) Detach(*textarea.TextArea) {
	n.ctx.Deactivate(InputHandlerDetached)
}

// HandleKey implements textarea.InputHandler.
func (n *Navigator) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		n.ctx.Deactivate(EscapePressed)
		return true
	case tcell.KeyEnter:
		n.ctx.Deactivate(ReturnPressed)
		return true
	case tcell.KeyTab:
		backwards := ev.Modifiers()&tcell.ModShift != 0
		n.selectElement(FindNextEditable(n.ctx.elements, n.ctx.area.Caret(), backwards))
		return true
	case tcell.KeyBacktab:
		n.selectElement(FindNextEditable(n.ctx.elements, n.ctx.area.Caret(), true))
		return true
	}
	return false
}

func (n *Navigator) selectElement(e ActiveElement) {
	if e == nil {
		return
	}
	if r, ok := e.Range(); ok {
		n.ctx.area.Select(r)
	}
}

// FindNextEditable returns the tab stop to move to from offset. Candidates
// are the editable elements with a live range, in registration order.
// Forward picks the first one starting after offset; backwards picks the
// last one ending before offset. With no such element the first candidate
// in the search order is returned, so navigation cycles. Returns nil when
// there are no candidates.
func FindNextEditable(elements []ActiveElement, offset int, backwards bool) ActiveElement {
	var candidates []ActiveElement
	for _, e := range elements {
		if !e.IsEditable() {
			continue
		}
		if _, ok := e.Range(); ok {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	if backwards {
		slices.Reverse(candidates)
	}
	for _, e := range candidates {
		r, _ := e.Range()
		if backwards && offset > r.End || !backwards && offset < r.Start {
			return e
		}
	}
	return candidates[0]
}
