package textarea

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/liveedit/internal/document"
)

type recordingOverlay struct {
	attached, detached int
	consume            bool
	keys               []tcell.Key
}

func (o *recordingOverlay) Attach(*TextArea) { o.attached++ }
func (o *recordingOverlay) Detach(*TextArea) { o.detached++ }
func (o *recordingOverlay) HandleKey(ev *tcell.EventKey) bool {
	o.keys = append(o.keys, ev.Key())
	return o.consume
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestCaretFollowsEdits(t *testing.T) {
	doc := document.New("hello world")
	a := New(doc)
	defer a.Close()

	a.SetCaret(6)
	require.NoError(t, doc.Insert(0, ">> "))
	assert.Equal(t, 9, a.Caret())

	require.NoError(t, doc.Insert(9, "big "))
	assert.Equal(t, 13, a.Caret(), "caret moves behind text inserted at its position")

	require.NoError(t, doc.Remove(0, doc.Len()))
	assert.Equal(t, 0, a.Caret())
}

func TestSelectionFollowsEdits(t *testing.T) {
	doc := document.New("foo bar baz")
	a := New(doc)
	defer a.Close()

	a.Select(document.Range{Start: 4, End: 7})
	assert.Equal(t, "bar", a.SelectedText())
	assert.Equal(t, 7, a.Caret())

	require.NoError(t, doc.Insert(4, "("))
	require.NoError(t, doc.Insert(8, ")"))
	assert.Equal(t, "(bar)", a.SelectedText())
}

func TestReplaceSelection(t *testing.T) {
	doc := document.New("foo bar baz")
	a := New(doc)
	defer a.Close()

	a.Select(document.Range{Start: 4, End: 7})
	require.NoError(t, a.ReplaceSelection("quux"))
	assert.Equal(t, "foo quux baz", doc.Text())
	assert.Equal(t, 8, a.Caret())
	assert.True(t, a.Selection().IsEmpty())

	require.NoError(t, a.ReplaceSelection("!"))
	assert.Equal(t, "foo quux! baz", doc.Text())
}

func TestDefaultKeys(t *testing.T) {
	doc := document.New("ac")
	a := New(doc)
	defer a.Close()

	a.SetCaret(1)
	assert.True(t, a.HandleKey(runeKey('b')))
	assert.Equal(t, "abc", doc.Text())

	assert.True(t, a.HandleKey(key(tcell.KeyBackspace2)))
	assert.Equal(t, "ac", doc.Text())

	assert.True(t, a.HandleKey(key(tcell.KeyDelete)))
	assert.Equal(t, "a", doc.Text())
	assert.False(t, a.HandleKey(key(tcell.KeyDelete)))

	assert.True(t, a.HandleKey(key(tcell.KeyEnter)))
	assert.Equal(t, "a\n", doc.Text())
}

func TestOverlayStack(t *testing.T) {
	doc := document.New("text")
	a := New(doc)

	bottom := &recordingOverlay{consume: true}
	top := &recordingOverlay{}
	a.PushOverlay(bottom)
	a.PushOverlay(top)
	assert.Equal(t, 1, bottom.attached)
	assert.Len(t, a.Overlays(), 2)

	assert.True(t, a.HandleKey(key(tcell.KeyEscape)))
	assert.Equal(t, []tcell.Key{tcell.KeyEscape}, top.keys)
	assert.Equal(t, []tcell.Key{tcell.KeyEscape}, bottom.keys)

	assert.True(t, a.RemoveOverlay(top))
	assert.False(t, a.RemoveOverlay(top))
	assert.Equal(t, 1, top.detached)

	a.Close()
	assert.Equal(t, 1, bottom.detached)
	assert.Empty(t, a.Overlays())
}
