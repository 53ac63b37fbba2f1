package snippet

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/textarea"
)

// Status is the lifecycle state of an InsertionContext.
type Status uint8

const (
	// StatusInsertion accepts InsertText and RegisterActiveElement.
	StatusInsertion Status = iota
	// StatusRaisingInsertionCompleted runs the completion callbacks.
	StatusRaisingInsertionCompleted
	// StatusInteractive means the snippet is live.
	StatusInteractive
	// StatusRaisingDeactivated runs the deactivation callbacks.
	StatusRaisingDeactivated
	// StatusDeactivated is final.
	StatusDeactivated
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusInsertion:
		return "insertion"
	case StatusRaisingInsertionCompleted:
		return "raising-insertion-completed"
	case StatusInteractive:
		return "interactive"
	case StatusRaisingDeactivated:
		return "raising-deactivated"
	case StatusDeactivated:
		return "deactivated"
	default:
		return fmt.Sprintf("Status(%d)", s)
	}
}

// DeactivationReason tells why interactive mode ended.
type DeactivationReason uint8

const (
	// Unknown is used when the host ends the session without a reason.
	Unknown DeactivationReason = iota
	// NoActiveElements means the snippet had nothing to interact with.
	NoActiveElements
	// Deleted means all of the snippet's text was removed.
	Deleted
	// ReturnPressed means the user pressed Enter.
	ReturnPressed
	// EscapePressed means the user pressed Escape.
	EscapePressed
	// InputHandlerDetached means the navigator was removed from the text
	// area, usually because another snippet took over.
	InputHandlerDetached
)

// String returns the reason name.
func (r DeactivationReason) String() string {
	switch r {
	case NoActiveElements:
		return "no-active-elements"
	case Deleted:
		return "deleted"
	case ReturnPressed:
		return "return-pressed"
	case EscapePressed:
		return "escape-pressed"
	case InputHandlerDetached:
		return "input-handler-detached"
	default:
		return "unknown"
	}
}

// ContextOption configures an InsertionContext.
type ContextOption func(*InsertionContext)

// WithLogger sets the context logger.
func WithLogger(l *log.Logger) ContextOption {
	return func(c *InsertionContext) {
		if l != nil {
			c.log = l
		}
	}
}

// InsertionContext is the state of one snippet insertion.
type InsertionContext struct {
	id   uuid.UUID
	area *textarea.TextArea
	doc  *document.Document

	status            Status
	selectedText      string
	indentation       string
	lineTerminator    string
	lineIndentation   string
	startPosition     int
	insertionPosition int

	wholeSnippet      *document.AnchorSegment
	deactivateIfEmpty bool

	registry  map[Element]ActiveElement
	elements  []ActiveElement
	navigator *Navigator
	subs      []*document.Subscription

	completed   document.Listeners[*InsertionContext]
	deactivated document.Listeners[DeactivationReason]

	log *log.Logger
}

// NewInsertionContext starts an insertion into area at start. selectedText
// is what Selection elements insert.
func NewInsertionContext(area *textarea.TextArea, start int, selectedText string, opts ...ContextOption) *InsertionContext {
	doc := area.Document()
	c := &InsertionContext{
		id:                uuid.New(),
		area:              area,
		doc:               doc,
		selectedText:      selectedText,
		indentation:       doc.Indentation(),
		lineTerminator:    doc.LineEnding().Sequence(),
		lineIndentation:   doc.LineIndentation(start),
		startPosition:     start,
		insertionPosition: start,
		registry:          make(map[Element]ActiveElement),
		log:               logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logging.FieldContext, c.id.String()[:8])
	return c
}

// ID returns the context identifier.
func (c *InsertionContext) ID() uuid.UUID {
	return c.id
}

// TextArea returns the text area the snippet is inserted into.
func (c *InsertionContext) TextArea() *textarea.TextArea {
	return c.area
}

// Document returns the edited document.
func (c *InsertionContext) Document() *document.Document {
	return c.doc
}

// Status returns the lifecycle state.
func (c *InsertionContext) Status() Status {
	return c.status
}

// SelectedText returns the text that was selected when insertion started.
func (c *InsertionContext) SelectedText() string {
	return c.selectedText
}

// StartPosition returns the offset insertion started at.
func (c *InsertionContext) StartPosition() int {
	return c.startPosition
}

// InsertionPosition returns the offset the next text is inserted at.
func (c *InsertionContext) InsertionPosition() int {
	return c.insertionPosition
}

// InsertText inserts text at the insertion position and advances it. Tabs
// are replaced by the document indentation and every line break by the
// document line terminator plus the indentation of the starting line.
func (c *InsertionContext) InsertText(text string) {
	c.mustBeInserting("InsertText")
	text = c.reindent(strings.ReplaceAll(text, "\t", c.indentation))
	if text == "" {
		return
	}
	if err := c.doc.Insert(c.insertionPosition, text); err != nil {
		panic(fmt.Sprintf("snippet: insert at %d: %v", c.insertionPosition, err))
	}
	c.insertionPosition += len([]rune(text))
}

func (c *InsertionContext) reindent(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			b.WriteByte(text[i])
			continue
		}
		b.WriteString(c.lineTerminator)
		b.WriteString(c.lineIndentation)
	}
	return b.String()
}

// RegisterActiveElement associates active with the template element owner.
// Each owner can be registered once per insertion.
func (c *InsertionContext) RegisterActiveElement(owner Element, active ActiveElement) {
	c.mustBeInserting("RegisterActiveElement")
	if owner == nil || active == nil {
		panic("snippet: RegisterActiveElement with nil element")
	}
	if _, dup := c.registry[owner]; dup {
		panic("snippet: element registered twice")
	}
	c.registry[owner] = active
	c.elements = append(c.elements, active)
}

// ActiveElement returns the active element registered for owner, or nil.
func (c *InsertionContext) ActiveElement(owner Element) ActiveElement {
	return c.registry[owner]
}

// ActiveElements returns the active elements in registration order.
func (c *InsertionContext) ActiveElements() []ActiveElement {
	out := make([]ActiveElement, len(c.elements))
	copy(out, c.elements)
	return out
}

// FindAnchor returns the first anchor element with the given name.
func (c *InsertionContext) FindAnchor(name string) *AnchorActive {
	for _, e := range c.elements {
		if a, ok := e.(*AnchorActive); ok && a.name == name {
			return a
		}
	}
	return nil
}

// Range returns the range covering the whole inserted snippet. Before
// insertion completes it covers the text inserted so far.
func (c *InsertionContext) Range() (document.Range, bool) {
	if c.wholeSnippet == nil {
		return document.Range{Start: c.startPosition, End: c.insertionPosition}, true
	}
	return c.wholeSnippet.Range()
}

// Navigator returns the input handler installed while interactive, or nil.
func (c *InsertionContext) Navigator() *Navigator {
	return c.navigator
}

// OnInsertionCompleted registers fn to run after the active elements have
// been told that insertion completed.
func (c *InsertionContext) OnInsertionCompleted(fn func(*InsertionContext)) *document.Subscription {
	return c.completed.Add(fn)
}

// OnDeactivated registers fn to run when interactive mode ends.
func (c *InsertionContext) OnDeactivated(fn func(DeactivationReason)) *document.Subscription {
	return c.deactivated.Add(fn)
}

// CompleteInsertion ends the insertion phase. It anchors the whole snippet,
// notifies the active elements and observers, and then either deactivates
// (no active elements) or installs a Navigator, evicting any other snippet
// navigator on the text area.
func (c *InsertionContext) CompleteInsertion() {
	c.mustBeInserting("CompleteInsertion")

	c.wholeSnippet = c.doc.CreateAnchorSegment(c.startPosition, c.insertionPosition-c.startPosition,
		document.BeforeInsertion, document.AfterInsertion, true)
	c.subs = append(c.subs, c.doc.OnUpdateFinished(c.onUpdateFinished))
	c.deactivateIfEmpty = c.insertionPosition != c.startPosition

	c.status = StatusRaisingInsertionCompleted
	for _, e := range c.elements {
		e.OnInsertionCompleted()
	}
	c.completed.Emit(c)
	c.status = StatusInteractive
	c.log.Debug("snippet inserted", logging.FieldElements, len(c.elements), logging.FieldStatus, c.status)

	if len(c.elements) == 0 {
		c.Deactivate(NoActiveElements)
		return
	}
	for _, h := range c.area.Overlays() {
		if nav, ok := h.(*Navigator); ok {
			c.area.RemoveOverlay(nav)
		}
	}
	c.navigator = &Navigator{ctx: c}
	c.area.PushOverlay(c.navigator)
}

// Deactivate ends interactive mode. Calling it again, or while it is
// running, does nothing. Calling it before CompleteInsertion has finished
// panics.
func (c *InsertionContext) Deactivate(reason DeactivationReason) {
	switch c.status {
	case StatusDeactivated, StatusRaisingDeactivated:
		return
	case StatusInteractive:
	default:
		panic(fmt.Sprintf("snippet: Deactivate in state %s", c.status))
	}
	c.status = StatusRaisingDeactivated

	for _, sub := range c.subs {
		sub.Cancel()
	}
	c.subs = nil
	if c.navigator != nil {
		c.area.RemoveOverlay(c.navigator)
	}
	for _, e := range c.elements {
		e.Deactivate(reason)
	}
	c.deactivated.Emit(reason)
	c.wholeSnippet.Release()

	c.status = StatusDeactivated
	c.log.Debug("snippet deactivated", logging.FieldReason, reason)
}

func (c *InsertionContext) onUpdateFinished() {
	if c.status != StatusInteractive {
		return
	}
	if c.deactivateIfEmpty && c.wholeSnippet.Len() == 0 {
		c.Deactivate(Deleted)
	}
}

func (c *InsertionContext) mustBeInserting(op string) {
	if c.status != StatusInsertion {
		panic(fmt.Sprintf("snippet: %s in state %s", op, c.status))
	}
}
