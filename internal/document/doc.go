// Package document provides the mutable text store that search highlighting
// and snippet sessions are layered on.
//
// A Document holds its text as runes; every offset in this package counts
// characters, not bytes. Positions that must survive edits are expressed as
// anchors:
//
//	doc := document.New("hello world")
//	a := doc.CreateAnchor(6, document.BeforeInsertion, false)
//	doc.Insert(0, ">> ")
//	a.Offset() // 9
//
// # Atomic Updates
//
// Multi-step edits are wrapped in an update scope so that listeners observe a
// single logical edit:
//
//	scope := doc.RunUpdate()
//	defer scope.End()
//	doc.Replace(0, 5, "howdy")
//	doc.Insert(doc.Len(), "!")
//
// OnChanged fires once per change. OnTextChanged and OnUpdateFinished fire
// when the outermost scope ends.
//
// # Segments
//
// AnchorSegment is a live range backed by two anchors. SegmentCollection keeps
// an ordered set of ranges (each carrying a value) up to date with the
// document and answers overlap and neighbour queries.
//
// # Thread Safety
//
// A Document is not safe for concurrent use; all mutation happens on the
// editing goroutine. Snapshot returns an immutable view that may be read from
// any goroutine.
package document
