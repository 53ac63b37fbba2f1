package document

import (
	"slices"
	"sort"
)

// TextSegment is a range stored in a SegmentCollection together with a value.
type TextSegment[T any] struct {
	start int
	end   int
	Value T
	owner *SegmentCollection[T]
}

// Start returns the start offset of the segment.
func (s *TextSegment[T]) Start() int { return s.start }

// End returns the end offset of the segment.
func (s *TextSegment[T]) End() int { return s.end }

// Len returns the length of the segment.
func (s *TextSegment[T]) Len() int { return s.end - s.start }

// Range returns the segment bounds.
func (s *TextSegment[T]) Range() Range { return Range{Start: s.start, End: s.end} }

// IsConnected reports whether the segment is still part of a collection.
func (s *TextSegment[T]) IsConnected() bool { return s.owner != nil }

// SegmentCollection is an ordered interval store kept up to date with a
// document. Text inserted at a segment's start moves the segment; text
// inserted at its end does not extend it. Segments whose text is removed
// collapse to zero length and stay in the collection.
type SegmentCollection[T any] struct {
	doc  *Document
	segs []*TextSegment[T]
	sub  *Subscription
}

// NewSegmentCollection creates a collection tracking doc.
func NewSegmentCollection[T any](doc *Document) *SegmentCollection[T] {
	c := &SegmentCollection[T]{doc: doc}
	c.sub = doc.OnChanged(c.onChanged)
	return c
}

// Document returns the tracked document.
func (c *SegmentCollection[T]) Document() *Document {
	return c.doc
}

// Add inserts a segment for r, keeping the collection ordered by start offset.
func (c *SegmentCollection[T]) Add(r Range, value T) *TextSegment[T] {
	s := &TextSegment[T]{start: r.Start, end: max(r.Start, r.End), Value: value, owner: c}
	i := sort.Search(len(c.segs), func(i int) bool { return c.segs[i].start > s.start })
	c.segs = slices.Insert(c.segs, i, s)
	return s
}

// Remove removes s from the collection. Returns false if s is not in it.
func (c *SegmentCollection[T]) Remove(s *TextSegment[T]) bool {
	i := c.indexOf(s)
	if i < 0 {
		return false
	}
	c.segs = slices.Delete(c.segs, i, i+1)
	s.owner = nil
	return true
}

// Clear removes every segment.
func (c *SegmentCollection[T]) Clear() {
	for _, s := range c.segs {
		s.owner = nil
	}
	c.segs = nil
}

// Len returns the number of segments.
func (c *SegmentCollection[T]) Len() int {
	return len(c.segs)
}

// All returns the segments in ascending start order.
func (c *SegmentCollection[T]) All() []*TextSegment[T] {
	return slices.Clone(c.segs)
}

// First returns the segment with the lowest start, or nil.
func (c *SegmentCollection[T]) First() *TextSegment[T] {
	if len(c.segs) == 0 {
		return nil
	}
	return c.segs[0]
}

// Last returns the segment with the highest start, or nil.
func (c *SegmentCollection[T]) Last() *TextSegment[T] {
	if len(c.segs) == 0 {
		return nil
	}
	return c.segs[len(c.segs)-1]
}

// FindFirstWithStartAfter returns the first segment whose start is >= offset.
func (c *SegmentCollection[T]) FindFirstWithStartAfter(offset int) *TextSegment[T] {
	i := sort.Search(len(c.segs), func(i int) bool { return c.segs[i].start >= offset })
	if i == len(c.segs) {
		return nil
	}
	return c.segs[i]
}

// FindLastWithStartBefore returns the last segment whose start is < offset.
func (c *SegmentCollection[T]) FindLastWithStartBefore(offset int) *TextSegment[T] {
	i := sort.Search(len(c.segs), func(i int) bool { return c.segs[i].start >= offset })
	if i == 0 {
		return nil
	}
	return c.segs[i-1]
}

// Next returns the segment following s, or nil.
func (c *SegmentCollection[T]) Next(s *TextSegment[T]) *TextSegment[T] {
	i := c.indexOf(s)
	if i < 0 || i+1 >= len(c.segs) {
		return nil
	}
	return c.segs[i+1]
}

// Previous returns the segment preceding s, or nil.
func (c *SegmentCollection[T]) Previous(s *TextSegment[T]) *TextSegment[T] {
	i := c.indexOf(s)
	if i <= 0 {
		return nil
	}
	return c.segs[i-1]
}

// FindOverlapping returns the segments intersecting [offset, offset+length).
// Empty segments are reported when they lie inside the queried span.
func (c *SegmentCollection[T]) FindOverlapping(offset, length int) []*TextSegment[T] {
	q := NewRange(offset, length)
	var out []*TextSegment[T]
	for _, s := range c.segs {
		if s.start > q.End {
			break
		}
		r := s.Range()
		if r.Overlaps(q) || (r.IsEmpty() && r.Start >= q.Start && (r.Start < q.End || q.IsEmpty() && r.Start == q.Start)) {
			out = append(out, s)
		}
	}
	return out
}

// FindByRange returns the segment exactly covering r, or nil.
func (c *SegmentCollection[T]) FindByRange(r Range) *TextSegment[T] {
	for s := c.FindFirstWithStartAfter(r.Start); s != nil && s.start == r.Start; s = c.Next(s) {
		if s.end == r.End {
			return s
		}
	}
	return nil
}

// Close stops tracking the document. The segments keep their last offsets.
func (c *SegmentCollection[T]) Close() {
	c.sub.Cancel()
}

func (c *SegmentCollection[T]) indexOf(s *TextSegment[T]) int {
	if s == nil || s.owner != c {
		return -1
	}
	return slices.Index(c.segs, s)
}

func (c *SegmentCollection[T]) onChanged(ch Change) {
	removed, inserted := ch.RemovalLength(), ch.InsertionLength()
	for _, s := range c.segs {
		s.start = ch.mapOffset(s.start, removed, inserted, AfterInsertion)
		s.end = max(s.start, ch.mapOffset(s.end, removed, inserted, BeforeInsertion))
	}
	slices.SortStableFunc(c.segs, func(a, b *TextSegment[T]) int { return a.start - b.start })
}
