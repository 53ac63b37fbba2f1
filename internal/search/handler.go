package search

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/textarea"
)

// Action names for search commands.
const (
	ActionFind         = "search.find"         // open a session and select the first match
	ActionReplace      = "search.replace"      // open a session with a replacement template
	ActionFindNext     = "search.findNext"     // select the next match
	ActionFindPrevious = "search.findPrevious" // select the previous match
	ActionReplaceNext  = "search.replaceNext"  // replace the selected match
	ActionReplaceAll   = "search.replaceAll"   // replace every match
	ActionClose        = "search.close"        // close the session
)

// Action is a search command with its arguments.
type Action struct {
	Name string
	// Pattern is used by find and replace. Empty keeps the current options.
	Pattern string
	// Options overrides the handler defaults when set.
	Options *Options
	// Replacement is the template for the replace actions.
	Replacement string
}

// ResultStatus classifies the outcome of an action.
type ResultStatus uint8

const (
	// StatusOK means the action ran.
	StatusOK ResultStatus = iota
	// StatusNoOp means the action had nothing to act on.
	StatusNoOp
	// StatusError means the action failed.
	StatusError
)

// ActionResult is the outcome of HandleAction.
type ActionResult struct {
	Status  ResultStatus
	Message string
	Err     error
}

func ok(msg string) ActionResult { return ActionResult{Status: StatusOK, Message: msg} }

func noOp(msg string) ActionResult { return ActionResult{Status: StatusNoOp, Message: msg} }

func failed(err error) ActionResult { return ActionResult{Status: StatusError, Message: err.Error(), Err: err} }

func failedf(format string, args ...any) ActionResult { return failed(fmt.Errorf(format, args...)) }

// Handler routes search commands to the session of one text area.
type Handler struct {
	area        *textarea.TextArea
	session     *Session
	replacement string
	defaults    Options
	log         *log.Logger
}

// NewHandler creates a handler for area. defaults supplies the mode and
// flags used when an action carries only a pattern.
func NewHandler(area *textarea.TextArea, defaults Options, logger *log.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{area: area, defaults: defaults, log: logger}
}

// Namespace returns the search namespace.
func (h *Handler) Namespace() string {
	return "search"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(name string) bool {
	switch name {
	case ActionFind, ActionReplace, ActionFindNext, ActionFindPrevious,
		ActionReplaceNext, ActionReplaceAll, ActionClose:
		return true
	}
	return false
}

// CanExecute reports whether the action is currently enabled. Everything
// except find and replace requires an open session.
func (h *Handler) CanExecute(name string) bool {
	switch name {
	case ActionFind, ActionReplace:
		return true
	}
	return h.CanHandle(name) && h.session != nil
}

// Session returns the open session, or nil.
func (h *Handler) Session() *Session {
	return h.session
}

// HandleAction processes a search action.
func (h *Handler) HandleAction(a Action) ActionResult {
	if !h.CanHandle(a.Name) {
		return failedf("unknown search action: %s", a.Name)
	}
	if !h.CanExecute(a.Name) {
		return noOp("search: no open session")
	}

	switch a.Name {
	case ActionFind:
		return h.open(a)
	case ActionReplace:
		h.replacement = a.Replacement
		return h.open(a)
	case ActionFindNext:
		if _, found := h.session.FindNext(); !found {
			return noOp(h.session.Status())
		}
		return ok(h.session.Status())
	case ActionFindPrevious:
		if _, found := h.session.FindPrevious(); !found {
			return noOp(h.session.Status())
		}
		return ok(h.session.Status())
	case ActionReplaceNext:
		return h.replaceNext(a)
	case ActionReplaceAll:
		return h.replaceAll(a)
	default:
		h.session.Close()
		h.session = nil
		return ok("")
	}
}

func (h *Handler) open(a Action) ActionResult {
	if a.Pattern == "" && h.session != nil {
		return ok(h.session.Status())
	}
	opts := h.defaults
	if a.Options != nil {
		opts = *a.Options
	}
	opts.Pattern = a.Pattern
	if opts.WordBorder == nil {
		opts.WordBorder = h.defaults.WordBorder
	}
	if h.session == nil {
		h.session = NewSession(h.area, WithLogger(h.log))
	}
	if err := h.session.SetOptions(opts); err != nil {
		return failed(err)
	}
	return ok(h.session.Status())
}

func (h *Handler) template(a Action) string {
	if a.Replacement != "" {
		h.replacement = a.Replacement
	}
	return h.replacement
}

func (h *Handler) replaceNext(a Action) ActionResult {
	replaced, err := h.session.ReplaceOne(h.template(a))
	if err != nil {
		return failed(err)
	}
	if !replaced {
		return noOp(h.session.Status())
	}
	return ok(h.session.Status())
}

func (h *Handler) replaceAll(a Action) ActionResult {
	n, err := h.session.ReplaceAll(h.template(a))
	if err != nil {
		return failed(err)
	}
	if n == 0 {
		return noOp("No matches")
	}
	return ok(fmt.Sprintf("replaced %d occurrence(s)", n))
}
