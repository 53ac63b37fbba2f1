package document

// MovementType decides where an anchor goes when text is inserted exactly at
// its offset.
type MovementType uint8

const (
	// BeforeInsertion keeps the anchor in front of the inserted text.
	BeforeInsertion MovementType = iota
	// AfterInsertion moves the anchor behind the inserted text.
	AfterInsertion
)

// String returns the movement type name.
func (m MovementType) String() string {
	if m == AfterInsertion {
		return "after-insertion"
	}
	return "before-insertion"
}

// Anchor is a document position that follows edits.
//
// An anchor whose surrounding text is removed is either collapsed onto the
// start of the removal (SurvivesDeletion) or marked deleted. A deleted
// anchor keeps reporting the offset it collapsed to but no longer moves.
type Anchor struct {
	doc              *Document
	offset           int
	movement         MovementType
	survivesDeletion bool
	deleted          bool
	released         bool
}

// Offset returns the current offset of the anchor.
func (a *Anchor) Offset() int {
	return a.offset
}

// IsDeleted reports whether the text containing the anchor was removed.
func (a *Anchor) IsDeleted() bool {
	return a.deleted
}

// MovementType returns the insertion tie-break rule.
func (a *Anchor) MovementType() MovementType {
	return a.movement
}

// SurvivesDeletion reports whether the anchor collapses instead of being deleted.
func (a *Anchor) SurvivesDeletion() bool {
	return a.survivesDeletion
}

// Document returns the document the anchor belongs to.
func (a *Anchor) Document() *Document {
	return a.doc
}

// Release stops tracking the anchor. Safe to call multiple times.
func (a *Anchor) Release() {
	if a.released {
		return
	}
	a.released = true
	delete(a.doc.anchors, a)
}

func (a *Anchor) update(c Change, removed, inserted int) {
	if !a.survivesDeletion && c.deletes(a.offset, removed) {
		a.offset = c.Offset
		a.deleted = true
		delete(a.doc.anchors, a)
		return
	}
	a.offset = c.mapOffset(a.offset, removed, inserted, a.movement)
}

// AnchorSegment is a live range delimited by two anchors.
type AnchorSegment struct {
	start *Anchor
	end   *Anchor
}

// NewAnchorSegment joins two anchors of the same document into a segment.
func NewAnchorSegment(start, end *Anchor) *AnchorSegment {
	return &AnchorSegment{start: start, end: end}
}

// StartAnchor returns the anchor marking the start of the segment.
func (s *AnchorSegment) StartAnchor() *Anchor {
	return s.start
}

// EndAnchor returns the anchor marking the end of the segment.
func (s *AnchorSegment) EndAnchor() *Anchor {
	return s.end
}

// IsDeleted reports whether either bounding anchor was deleted.
func (s *AnchorSegment) IsDeleted() bool {
	return s.start.deleted || s.end.deleted
}

// Range returns the current range. The second result is false when either
// anchor has been deleted or released.
func (s *AnchorSegment) Range() (Range, bool) {
	if s.IsDeleted() || s.start.released || s.end.released {
		return Range{}, false
	}
	start := s.start.offset
	end := max(start, s.end.offset)
	return Range{Start: start, End: end}, true
}

// Offset returns the start offset, or -1 if the segment is stale.
func (s *AnchorSegment) Offset() int {
	r, ok := s.Range()
	if !ok {
		return -1
	}
	return r.Start
}

// Len returns the segment length, or 0 if the segment is stale.
func (s *AnchorSegment) Len() int {
	r, ok := s.Range()
	if !ok {
		return 0
	}
	return r.Len()
}

// Release releases both anchors.
func (s *AnchorSegment) Release() {
	s.start.Release()
	s.end.Release()
}
