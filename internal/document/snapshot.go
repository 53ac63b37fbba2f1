package document

// Snapshot provides a read-only view of a document at a specific point in
// time. It is safe for concurrent access and will not change even if the
// original document is modified.
type Snapshot struct {
	text       []rune
	revision   RevisionID
	lineEnding LineEnding
}

// Text returns the full snapshot content.
func (s *Snapshot) Text() string {
	return string(s.text)
}

// Runes returns the snapshot content. The slice must not be modified.
func (s *Snapshot) Runes() []rune {
	return s.text
}

// Len returns the number of characters in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.text)
}

// GetText returns length characters starting at offset.
func (s *Snapshot) GetText(offset, length int) string {
	if offset < 0 || length < 0 || offset+length > len(s.text) {
		return ""
	}
	return string(s.text[offset : offset+length])
}

// Revision returns the revision the snapshot was taken at.
func (s *Snapshot) Revision() RevisionID {
	return s.revision
}

// LineEnding returns the line ending of the source document.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// TextSource is the read-only view shared by Document and Snapshot.
type TextSource interface {
	Len() int
	Runes() []rune
	GetText(offset, length int) string
}

var (
	_ TextSource = (*Document)(nil)
	_ TextSource = (*Snapshot)(nil)
)
