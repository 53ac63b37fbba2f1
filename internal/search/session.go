package search

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/textarea"
)

// Session owns the live result set of one text area.
type Session struct {
	id       uuid.UUID
	area     *textarea.TextArea
	doc      *document.Document
	strategy Strategy
	err      error

	results *document.SegmentCollection[Result]
	current *document.TextSegment[Result]

	sub     *document.Subscription
	changed document.Listeners[*Session]
	closed  bool
	log     *log.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession opens a search session on area. It has no results until
// SetOptions is called.
func NewSession(area *textarea.TextArea, opts ...SessionOption) *Session {
	s := &Session{
		id:   uuid.New(),
		area: area,
		doc:  area.Document(),
		log:  logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logging.FieldSession, s.id.String()[:8])
	s.results = document.NewSegmentCollection[Result](s.doc)
	s.sub = s.doc.OnTextChanged(func() { s.RunSearch(false) })
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Strategy returns the active strategy, or nil if none compiled yet.
func (s *Session) Strategy() Strategy {
	return s.strategy
}

// Err returns the error from the last SetOptions call.
func (s *Session) Err() error {
	return s.err
}

// SetOptions compiles opts and re-runs the search, selecting the first
// result at or after the caret. On a *PatternError the previous strategy and
// results are kept and the error is reported by Status.
func (s *Session) SetOptions(opts Options) error {
	if s.closed {
		return ErrSessionClosed
	}
	strategy, err := NewStrategy(opts)
	if err != nil {
		s.err = err
		s.log.Warn("search pattern rejected", logging.FieldPattern, opts.Pattern, logging.FieldError, err)
		s.changed.Emit(s)
		return err
	}
	s.strategy = strategy
	s.err = nil
	s.RunSearch(true)
	return nil
}

// RunSearch clears the results and searches the whole document again.
// With resetSelection the first result at or after the caret (or the first
// result overall) is selected; otherwise caret and selection are untouched.
func (s *Session) RunSearch(resetSelection bool) {
	if s.closed || s.strategy == nil {
		return
	}
	s.results.Clear()
	s.current = nil
	for r := range s.strategy.FindAll(s.doc, 0, s.doc.Len()) {
		s.results.Add(r.Range(), r)
	}
	opts := s.strategy.Options()
	s.log.Debug("search finished",
		logging.FieldPattern, opts.Pattern,
		logging.FieldMode, opts.Mode,
		logging.FieldResults, s.results.Len())

	if resetSelection {
		seg := s.results.FindFirstWithStartAfter(s.area.Caret())
		if seg == nil {
			seg = s.results.First()
		}
		if seg != nil {
			s.selectSegment(seg)
			return
		}
	} else {
		s.current = s.matchSelection()
	}
	s.changed.Emit(s)
}

// ApplyResults installs results computed in the background by Collect.
// They are only applied if the document is still at revision rev.
func (s *Session) ApplyResults(rev document.RevisionID, results []Result) bool {
	if s.closed || rev != s.doc.Revision() {
		return false
	}
	s.results.Clear()
	for _, r := range results {
		s.results.Add(r.Range(), r)
	}
	s.current = s.matchSelection()
	s.changed.Emit(s)
	return true
}

// Results returns the live results in ascending order.
func (s *Session) Results() []Result {
	segs := s.results.All()
	out := make([]Result, len(segs))
	for i, seg := range segs {
		out[i] = segmentResult(seg)
	}
	return out
}

// Count returns the number of results.
func (s *Session) Count() int {
	return s.results.Len()
}

// Current returns the selected result and its index.
func (s *Session) Current() (Result, int, bool) {
	if s.current == nil || !s.current.IsConnected() {
		return Result{}, -1, false
	}
	return segmentResult(s.current), slices.Index(s.results.All(), s.current), true
}

// FindNext selects the nearest result after the caret, wrapping to the
// first result.
func (s *Session) FindNext() (Result, bool) {
	from := s.area.Caret()
	if cur := s.matchSelection(); cur != nil {
		from = cur.Start() + 1
	}
	return s.FindNextFrom(from)
}

// FindPrevious selects the nearest result before the caret, wrapping to the
// last result. A selected result counts from its start so that repeated
// calls walk backwards.
func (s *Session) FindPrevious() (Result, bool) {
	from := s.area.Caret()
	if sel := s.area.Selection(); !sel.IsEmpty() {
		from = sel.Start()
	}
	return s.FindPreviousFrom(from)
}

// FindNextFrom selects the first result starting at or after offset.
func (s *Session) FindNextFrom(offset int) (Result, bool) {
	seg := s.results.FindFirstWithStartAfter(offset)
	if seg == nil {
		seg = s.results.First()
	}
	return s.selectResult(seg)
}

// FindPreviousFrom selects the last result starting before offset.
func (s *Session) FindPreviousFrom(offset int) (Result, bool) {
	seg := s.results.FindLastWithStartBefore(offset)
	if seg == nil {
		seg = s.results.Last()
	}
	return s.selectResult(seg)
}

// ReplaceOne replaces the selected result with the expanded template and
// selects the next result. If the selection is not a result, the next
// result is selected instead and false is returned.
func (s *Session) ReplaceOne(template string) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	seg := s.matchSelection()
	if seg == nil || seg.Len() == 0 {
		s.FindNext()
		return false, nil
	}
	r := seg.Range()
	if err := s.doc.Replace(r.Start, r.Len(), seg.Value.ReplaceWith(template)); err != nil {
		return false, fmt.Errorf("replace %s: %w", r, err)
	}
	s.FindNextFrom(s.area.Caret())
	return true, nil
}

// ReplaceAll replaces every result inside one update and returns the number
// of replacements.
func (s *Session) ReplaceAll(template string) (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	segs := s.results.All()
	if len(segs) == 0 {
		return 0, nil
	}
	reps := make([]replacement, len(segs))
	for i, seg := range segs {
		reps[i] = replacement{Range: seg.Range(), Text: seg.Value.ReplaceWith(template)}
	}
	sortDescending(reps)

	scope := s.doc.RunUpdate()
	err := applyReplacements(s.doc, reps)
	scope.End()

	s.log.Debug("replaced all", logging.FieldReplace, len(reps))
	if err != nil {
		return 0, err
	}
	return len(reps), nil
}

// Status returns the label shown next to the search box.
func (s *Session) Status() string {
	var perr *PatternError
	if errors.As(s.err, &perr) {
		return perr.Error()
	}
	n := s.results.Len()
	if _, i, ok := s.Current(); ok {
		return fmt.Sprintf("%d of %d", i+1, n)
	}
	switch n {
	case 0:
		return "No matches"
	case 1:
		return "1 match"
	default:
		return fmt.Sprintf("%d matches", n)
	}
}

// OnChanged registers fn to run whenever the result set or current result
// changes.
func (s *Session) OnChanged(fn func(*Session)) *document.Subscription {
	return s.changed.Add(fn)
}

// Close releases the document subscriptions and drops the results.
// Safe to call multiple times.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.sub.Cancel()
	s.results.Clear()
	s.results.Close()
	s.current = nil
	s.changed.Emit(s)
}

// IsClosed reports whether Close was called.
func (s *Session) IsClosed() bool {
	return s.closed
}

func (s *Session) matchSelection() *document.TextSegment[Result] {
	sel := s.area.Selection()
	if sel.IsEmpty() {
		if s.current != nil && s.current.IsConnected() && s.current.Len() == 0 && s.current.Start() == s.area.Caret() {
			return s.current
		}
		return nil
	}
	return s.results.FindByRange(sel.Range())
}

func (s *Session) selectResult(seg *document.TextSegment[Result]) (Result, bool) {
	if seg == nil {
		return Result{}, false
	}
	s.selectSegment(seg)
	return segmentResult(seg), true
}

func (s *Session) selectSegment(seg *document.TextSegment[Result]) {
	s.current = seg
	s.area.Select(seg.Range())
	s.changed.Emit(s)
}

func segmentResult(seg *document.TextSegment[Result]) Result {
	r := seg.Value
	r.Start, r.Length = seg.Start(), seg.Len()
	return r
}

// replacement is a pending edit computed against the pre-edit document.
type replacement struct {
	Range document.Range
	Text  string
}

// sortDescending orders replacements by descending end offset. Applying
// them in this order never shifts a replacement that is still pending.
func sortDescending(reps []replacement) {
	slices.SortFunc(reps, func(a, b replacement) int {
		return cmp.Compare(b.Range.End, a.Range.End)
	})
}

// applyReplacements applies reps in slice order using their recorded offsets.
func applyReplacements(doc *document.Document, reps []replacement) error {
	for _, r := range reps {
		if err := doc.Replace(r.Range.Start, r.Range.Len(), r.Text); err != nil {
			return fmt.Errorf("replace %s: %w", r.Range, err)
		}
	}
	return nil
}
