package snippet

import (
	"strings"

	"github.com/dshills/liveedit/internal/textarea"
)

// Snippet is the root of a snippet template.
type Snippet struct {
	Container
	fields []namedField
}

type namedField struct {
	name string
	elem *Replaceable
}

// New returns a snippet made of elements.
func New(elements ...Element) *Snippet {
	return &Snippet{Container: Container{Elements: elements}}
}

// Insert inserts the snippet at the caret, or in place of the selection, and
// returns the context driving the interactive session. Blanks at the start
// of the selection stay in the document. All edits form one update.
func (s *Snippet) Insert(area *textarea.TextArea, opts ...ContextOption) *InsertionContext {
	doc := area.Document()
	sel := area.Selection()
	start := area.Caret()
	selected := ""
	if !sel.IsEmpty() {
		r := sel.Range()
		selected = doc.TextRange(r)
		start = r.Start + len([]rune(selected)) - len([]rune(strings.TrimLeft(selected, " \t")))
	}

	ctx := NewInsertionContext(area, start, selected, opts...)
	scope := doc.RunUpdate()
	defer scope.End()

	if !sel.IsEmpty() {
		if err := doc.Remove(start, sel.End()-start); err != nil {
			panic("snippet: remove selection: " + err.Error())
		}
		area.SetCaret(start)
		area.ClearSelection()
	}
	s.Container.Insert(ctx)
	ctx.CompleteInsertion()
	return ctx
}

// Field returns the field called name in a parsed snippet, or nil.
func (s *Snippet) Field(name string) *Replaceable {
	for _, f := range s.fields {
		if f.name == name {
			return f.elem
		}
	}
	return nil
}

// FieldNames returns the field names of a parsed snippet in order of
// appearance.
func (s *Snippet) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Text renders the snippet as plain text: fields show their initial text,
// mirrors repeat it, and markers produce nothing.
func (s *Snippet) Text() string {
	var b strings.Builder
	renderText(&b, &s.Container)
	return b.String()
}

func renderText(b *strings.Builder, e Element) {
	switch e := e.(type) {
	case *Text:
		b.WriteString(e.Text)
	case *Container:
		for _, child := range e.Elements {
			renderText(b, child)
		}
	case *Replaceable:
		b.WriteString(e.Text)
	case *Bound:
		if e.Target != nil {
			b.WriteString(e.convert(e.Target.Text))
		}
	}
}
