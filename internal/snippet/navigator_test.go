package snippet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/liveedit/internal/document"
)

type fakeElement struct {
	r        document.Range
	editable bool
	stale    bool
}

func (f *fakeElement) OnInsertionCompleted()         {}
func (f *fakeElement) Deactivate(DeactivationReason) {}
func (f *fakeElement) IsEditable() bool              { return f.editable }
func (f *fakeElement) Range() (document.Range, bool) { return f.r, !f.stale }

func tabStop(start, end int) *fakeElement {
	return &fakeElement{r: document.Range{Start: start, End: end}, editable: true}
}

func TestFindNextEditable(t *testing.T) {
	a, b, c := tabStop(5, 8), tabStop(12, 15), tabStop(20, 22)
	elements := []ActiveElement{a, b, c}

	tests := []struct {
		name      string
		offset    int
		backwards bool
		want      ActiveElement
	}{
		{"forward from inside the middle field", 13, false, c},
		{"forward wraps to the first", 25, false, a},
		{"forward from before everything", 0, false, a},
		{"forward from a field start", 5, false, b},
		{"backward skips the field under the caret", 13, true, a},
		{"backward from a field end", 22, true, b},
		{"backward wraps to the last", 3, true, c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, FindNextEditable(elements, tt.offset, tt.backwards))
		})
	}
}

func TestFindNextEditableSkipsPassiveAndStale(t *testing.T) {
	mirror := &fakeElement{r: document.Range{Start: 10, End: 12}}
	gone := &fakeElement{r: document.Range{Start: 14, End: 16}, editable: true, stale: true}
	last := tabStop(20, 22)

	assert.Same(t, last, FindNextEditable([]ActiveElement{tabStop(0, 1), mirror, gone, last}, 5, false))
	assert.Nil(t, FindNextEditable([]ActiveElement{mirror, gone}, 0, false))
	assert.Nil(t, FindNextEditable(nil, 0, true))
}
