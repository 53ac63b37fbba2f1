// Package snippet inserts templated text into a text area and keeps parts of
// it live afterwards.
//
// A Snippet is a tree of Elements authored once and reused. Each call to
// Snippet.Insert creates an InsertionContext that inserts the elements,
// registers an ActiveElement for every field, mirror and named anchor, and
// then switches to interactive mode: Tab and Backtab move between editable
// fields, Bound fields follow their target, and Escape or Enter ends the
// session.
//
// Lifecycle of an InsertionContext:
//
//	Insertion -> RaisingInsertionCompleted -> Interactive -> RaisingDeactivated -> Deactivated
//
// InsertText and RegisterActiveElement are only legal during Insertion.
// Calling them later is a programming error and panics.
package snippet
