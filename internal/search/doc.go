// Package search implements find and replace over a live document.
//
// A Strategy is compiled once from Options and turns a text source into an
// ordered, non-overlapping sequence of Results. Strategies hold no mutable
// state and may run on a background goroutine against a document.Snapshot.
//
// A Session owns the live result set for one text area. Results are kept in a
// document.SegmentCollection so highlights follow edits; the session re-runs
// its strategy whenever the document text changes.
//
//	s := search.NewSession(area)
//	if err := s.SetOptions(search.Options{Pattern: "foo"}); err != nil {
//	    var perr *search.PatternError
//	    if errors.As(err, &perr) { ... }
//	}
//	s.FindNext()
//	s.ReplaceAll("bar")
//
// Handler exposes the session as named actions gated on whether a session
// is open.
package search
