package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/liveedit/internal/document"
)

func pendingReplacements(t *testing.T, doc *document.Document, pattern, text string) []replacement {
	t.Helper()
	var reps []replacement
	for r := range mustStrategy(t, Options{Pattern: pattern}).FindAll(doc, 0, doc.Len()) {
		reps = append(reps, replacement{Range: r.Range(), Text: text})
	}
	require.Len(t, reps, 3)
	return reps
}

func TestReplacementsDescendingOrder(t *testing.T) {
	doc := document.New("aa bb aa cc aa")
	reps := pendingReplacements(t, doc, "aa", "xxxx")

	sortDescending(reps)
	assert.Equal(t, []int{12, 6, 0}, []int{reps[0].Range.Start, reps[1].Range.Start, reps[2].Range.Start})

	require.NoError(t, applyReplacements(doc, reps))
	assert.Equal(t, "xxxx bb xxxx cc xxxx", doc.Text())
}

func TestReplacementsAscendingOrderCorrupts(t *testing.T) {
	doc := document.New("aa bb aa cc aa")
	reps := pendingReplacements(t, doc, "aa", "xxxx")

	require.NoError(t, applyReplacements(doc, reps))
	assert.NotEqual(t, "xxxx bb xxxx cc xxxx", doc.Text())
	assert.Equal(t, "xxxx bxxxxaaxxxxc aa", doc.Text())
}
