package snippet

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/liveedit/internal/document"
	"github.com/dshills/liveedit/internal/logging"
	"github.com/dshills/liveedit/internal/textarea"
)

type transformMap map[string]func(string) string

func (m transformMap) Lookup(name string) (func(string) string, bool) {
	fn, ok := m[name]
	return fn, ok
}

func newArea(t *testing.T, text string, opts ...document.Option) (*document.Document, *textarea.TextArea) {
	t.Helper()
	doc := document.New(text, opts...)
	area := textarea.New(doc)
	t.Cleanup(area.Close)
	return doc, area
}

func mustParse(t *testing.T, template string) *Snippet {
	t.Helper()
	s, err := Parse(template, transformMap{"upper": strings.ToUpper})
	require.NoError(t, err)
	return s
}

func insert(s *Snippet, area *textarea.TextArea) *InsertionContext {
	return s.Insert(area, WithLogger(logging.Discard()))
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func rangeOf(t *testing.T, e ActiveElement) document.Range {
	t.Helper()
	r, ok := e.Range()
	require.True(t, ok)
	return r
}

func TestSnippetWithoutActiveElements(t *testing.T) {
	doc, area := newArea(t, "")

	ctx := insert(mustParse(t, "hi ${Caret}there"), area)

	assert.Equal(t, "hi there", doc.Text())
	assert.Equal(t, StatusDeactivated, ctx.Status())
	assert.Equal(t, 3, area.Caret(), "caret restored to the caret marker")
	assert.Empty(t, area.Overlays())
	assert.Zero(t, doc.AnchorCount())
}

func TestSnippetBecomesInteractive(t *testing.T) {
	doc, area := newArea(t, "")

	ctx := insert(mustParse(t, "for ${i:x} in ${items}: ${i}"), area)

	assert.Equal(t, "for x in items: x", doc.Text())
	assert.Equal(t, StatusInteractive, ctx.Status())
	require.Len(t, area.Overlays(), 1)
	assert.Same(t, ctx.Navigator(), area.Overlays()[0])
	assert.Len(t, ctx.ActiveElements(), 3)
	assert.Equal(t, document.Range{Start: 4, End: 5}, area.Selection().Range(), "first field selected")
	whole, ok := ctx.Range()
	require.True(t, ok)
	assert.Equal(t, document.Range{Start: 0, End: 17}, whole)
}

func TestSecondSnippetEvictsFirst(t *testing.T) {
	doc, area := newArea(t, "")
	first := insert(mustParse(t, "${a:one}"), area)
	var reason DeactivationReason
	first.OnDeactivated(func(r DeactivationReason) { reason = r })

	area.SetCaret(doc.Len())
	area.ClearSelection()
	second := insert(mustParse(t, " ${b:two}"), area)

	assert.Equal(t, StatusDeactivated, first.Status())
	assert.Equal(t, InputHandlerDetached, reason)
	assert.Equal(t, StatusInteractive, second.Status())
	require.Len(t, area.Overlays(), 1)
	assert.Same(t, second.Navigator(), area.Overlays()[0])
	assert.Equal(t, "one two", doc.Text())
}

func TestTabCyclesThroughFields(t *testing.T) {
	_, area := newArea(t, "")
	insert(mustParse(t, "${a} ${b} ${c}"), area)
	sel := func() document.Range { return area.Selection().Range() }

	require.Equal(t, document.Range{Start: 0, End: 1}, sel())

	assert.True(t, area.HandleKey(key(tcell.KeyTab)))
	assert.Equal(t, document.Range{Start: 2, End: 3}, sel())
	area.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, document.Range{Start: 4, End: 5}, sel())
	area.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, document.Range{Start: 0, End: 1}, sel(), "wraps to the first field")

	area.HandleKey(key(tcell.KeyBacktab))
	assert.Equal(t, document.Range{Start: 4, End: 5}, sel(), "wraps to the last field")
	area.HandleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModShift))
	assert.Equal(t, document.Range{Start: 2, End: 3}, sel())
	assert.Equal(t, 3, area.Caret())
}

func TestOtherKeysEditTheField(t *testing.T) {
	doc, area := newArea(t, "")
	ctx := insert(mustParse(t, "Hello ${name:world} and ${name}"), area)
	require.Equal(t, "Hello world and world", doc.Text())

	assert.True(t, area.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'X', tcell.ModNone)))
	assert.Equal(t, "Hello X and X", doc.Text())
	area.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModNone))
	assert.Equal(t, "Hello Xy and Xy", doc.Text())
	assert.Equal(t, StatusInteractive, ctx.Status())
}

func TestBoundElementFollowsTarget(t *testing.T) {
	doc, area := newArea(t, "")
	s := mustParse(t, "Hello ${name:world} and ${name}")
	ctx := insert(s, area)
	field := ctx.ActiveElement(s.Field("name")).(*ReplaceableActive)

	require.NoError(t, doc.Insert(11, "s"))
	assert.Equal(t, "Hello worlds and worlds", doc.Text())

	require.NoError(t, field.SetText("Go"))
	assert.Equal(t, "Hello Go and Go", doc.Text())

	var mirror *BoundActive
	for _, e := range ctx.ActiveElements() {
		if b, ok := e.(*BoundActive); ok {
			mirror = b
		}
	}
	require.NotNil(t, mirror)
	assert.Equal(t, "Go", mirror.Text())
	assert.False(t, mirror.IsEditable())
}

func TestBoundElementStopsWhenRangesMeet(t *testing.T) {
	doc, area := newArea(t, "")
	insert(mustParse(t, "Hello ${name:X} and ${name}"), area)
	require.Equal(t, "Hello X and X", doc.Text())

	require.NoError(t, doc.Remove(7, 5))
	require.Equal(t, "Hello XX", doc.Text())

	changes := 0
	doc.OnChanged(func(document.Change) { changes++ })
	require.NoError(t, doc.Insert(7, "Y"))

	assert.Equal(t, "Hello XYX", doc.Text())
	assert.Equal(t, 1, changes, "no propagation once the ranges meet")
}

func TestBoundElementTransform(t *testing.T) {
	doc, area := newArea(t, "")
	s := mustParse(t, "${lang:go} ${lang|upper}")
	ctx := insert(s, area)
	require.Equal(t, "go GO", doc.Text())

	require.NoError(t, ctx.ActiveElement(s.Field("lang")).(*ReplaceableActive).SetText("rust"))
	assert.Equal(t, "rust RUST", doc.Text())
}

func TestEmptyBoundElementGrows(t *testing.T) {
	doc, area := newArea(t, "")
	s := mustParse(t, "${a:}|${a}")
	ctx := insert(s, area)
	field := ctx.ActiveElement(s.Field("a")).(*ReplaceableActive)
	require.Equal(t, "|", doc.Text())

	require.NoError(t, field.SetText("ab"))
	assert.Equal(t, "ab|ab", doc.Text())

	require.NoError(t, field.SetText("xyz"))
	assert.Equal(t, "xyz|xyz", doc.Text(), "mirror covers the text it inserted")
}

func TestDeletingSnippetDeactivates(t *testing.T) {
	doc, area := newArea(t, "")
	ctx := insert(mustParse(t, "(${a:x})"), area)
	var reason DeactivationReason
	ctx.OnDeactivated(func(r DeactivationReason) { reason = r })

	require.NoError(t, doc.Remove(0, 3))

	assert.Equal(t, StatusDeactivated, ctx.Status())
	assert.Equal(t, Deleted, reason)
	assert.Empty(t, area.Overlays())
	assert.Zero(t, doc.AnchorCount())
}

func TestEmptySnippetIsNotDeletedByEdits(t *testing.T) {
	doc, area := newArea(t, "abc")
	ctx := insert(New(&Replaceable{}), area)
	require.Equal(t, StatusInteractive, ctx.Status())

	require.NoError(t, doc.Insert(0, "x"))
	require.NoError(t, doc.Remove(0, doc.Len()))

	assert.Equal(t, StatusInteractive, ctx.Status())
}

func TestEnterAndEscape(t *testing.T) {
	t.Run("enter moves the caret to the marker", func(t *testing.T) {
		doc, area := newArea(t, "")
		ctx := insert(mustParse(t, "${a:x} end${Caret}"), area)
		var reason DeactivationReason
		ctx.OnDeactivated(func(r DeactivationReason) { reason = r })

		assert.True(t, area.HandleKey(key(tcell.KeyEnter)))
		assert.Equal(t, ReturnPressed, reason)
		assert.Equal(t, "x end", doc.Text(), "enter is consumed")
		assert.Equal(t, 5, area.Caret())
		assert.True(t, area.Selection().IsEmpty())
		assert.Zero(t, doc.AnchorCount())
	})

	t.Run("escape leaves the caret alone", func(t *testing.T) {
		doc, area := newArea(t, "")
		ctx := insert(mustParse(t, "${a:x} end${Caret}"), area)

		assert.True(t, area.HandleKey(key(tcell.KeyEscape)))
		assert.Equal(t, StatusDeactivated, ctx.Status())
		assert.Equal(t, 1, area.Caret())
		assert.Empty(t, area.Overlays())
		assert.Zero(t, doc.AnchorCount())

		assert.False(t, area.HandleKey(key(tcell.KeyEscape)), "keys reach the text area again")
	})
}

func TestDeactivateIsIdempotent(t *testing.T) {
	_, area := newArea(t, "")
	ctx := insert(mustParse(t, "${a}"), area)
	calls := 0
	ctx.OnDeactivated(func(DeactivationReason) { calls++ })

	ctx.Deactivate(EscapePressed)
	assert.NotPanics(t, func() { ctx.Deactivate(Unknown) })
	assert.Equal(t, 1, calls)
}

func TestContractViolationsPanic(t *testing.T) {
	_, area := newArea(t, "")
	ctx := NewInsertionContext(area, 0, "", WithLogger(logging.Discard()))

	assert.Panics(t, func() { ctx.Deactivate(Unknown) }, "deactivate before completion")

	r := &Replaceable{}
	r.Insert(ctx)
	assert.Panics(t, func() { ctx.RegisterActiveElement(r, newReplaceableActive(ctx, 0, 0)) }, "duplicate registration")

	ctx.CompleteInsertion()
	assert.Equal(t, StatusInteractive, ctx.Status())

	assert.Panics(t, func() { ctx.InsertText("x") })
	assert.Panics(t, func() { ctx.RegisterActiveElement(&Anchor{}, &AnchorActive{}) })
	assert.Panics(t, func() { ctx.CompleteInsertion() })
}

func TestInsertTextReindents(t *testing.T) {
	doc, area := newArea(t, "    x", document.WithIndentation("  "), document.WithLineEnding(document.LineEndingLF))
	area.SetCaret(4)

	insert(New(&Text{Text: "if {\n\tbody\r\n}"}), area)

	assert.Equal(t, "    if {\n      body\n    }x", doc.Text())
}

func TestInsertTextUsesDocumentLineEnding(t *testing.T) {
	doc, area := newArea(t, "", document.WithLineEnding(document.LineEndingCRLF))

	insert(New(&Text{Text: "a\nb"}), area)

	assert.Equal(t, "a\r\nb", doc.Text())
}

func TestSelectionElement(t *testing.T) {
	doc, area := newArea(t, "(  sel)")
	area.Select(document.Range{Start: 1, End: 6})

	ctx := insert(mustParse(t, "[${Selection}]"), area)

	assert.Equal(t, "(  [sel])", doc.Text())
	assert.Equal(t, "  sel", ctx.SelectedText())
	assert.Equal(t, 3, ctx.StartPosition())
}

func TestSelectionElementWithoutSelection(t *testing.T) {
	doc, area := newArea(t, "ab")
	area.SetCaret(1)

	insert(mustParse(t, "<${Selection}>"), area)

	assert.Equal(t, "a<>b", doc.Text())
	assert.Equal(t, 2, area.Caret(), "acts as a caret marker")
}

func TestNamedAnchor(t *testing.T) {
	doc, area := newArea(t, "")
	ctx := insert(mustParse(t, "a${@mark}b"), area)
	require.Equal(t, StatusInteractive, ctx.Status())

	mark := ctx.FindAnchor("mark")
	require.NotNil(t, mark)
	assert.Equal(t, "mark", mark.Name())
	assert.Equal(t, document.Range{Start: 1, End: 1}, rangeOf(t, mark))
	assert.Nil(t, ctx.FindAnchor("other"))

	require.NoError(t, mark.SetText("XY"))
	assert.Equal(t, "aXYb", doc.Text())
	assert.Equal(t, "XY", mark.Text())

	require.NoError(t, mark.SetText("Z"))
	assert.Equal(t, "aZb", doc.Text())
	assert.Equal(t, document.Range{Start: 1, End: 2}, rangeOf(t, mark))
}

func TestDeletedFieldIsSkipped(t *testing.T) {
	doc, area := newArea(t, "")
	s := mustParse(t, "${a:abc} ${b:def}")
	ctx := insert(s, area)
	a := ctx.ActiveElement(s.Field("a")).(*ReplaceableActive)

	require.NoError(t, doc.Remove(0, 4))

	_, ok := a.Range()
	assert.False(t, ok)
	assert.Empty(t, a.Text())
	assert.ErrorIs(t, a.SetText("x"), document.ErrRangeInvalid)

	area.HandleKey(key(tcell.KeyTab))
	assert.Equal(t, document.Range{Start: 0, End: 3}, area.Selection().Range())
	assert.Equal(t, StatusInteractive, ctx.Status())
}

func TestSnippetTextWalksNestedContainers(t *testing.T) {
	name := &Replaceable{Text: "n"}
	s := New(
		&Text{Text: "<"},
		&Container{Elements: []Element{&Caret{}, name, &Container{Elements: []Element{&Text{Text: "-"}}}}},
		&Bound{Target: name, Transform: strings.ToUpper},
		&Anchor{Name: "end"},
		&Text{Text: ">"},
	)

	assert.Equal(t, "<n-N>", s.Text())
}
