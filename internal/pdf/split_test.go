package pdf

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedFixture(t *testing.T, n int) []byte {
	t.Helper()
	pages := make([]fixturePage, n)
	for i := range pages {
		pages[i] = yellowPage(nil, word{x: 72, y: 72, text: fmt.Sprintf("Marker page %d", i)})
	}
	return buildFixture(t, pages...)
}

func TestSplitByPages(t *testing.T) {
	doc := numberedFixture(t, 4)
	e := NewExtractor(DefaultOptions())

	tests := []struct {
		name  string
		pages []int
		want  []int
	}{
		{"reordered input", []int{2, 0, 1}, []int{0, 1, 2}},
		{"single page", []int{3}, []int{3}},
		{"duplicates collapse", []int{1, 1}, []int{1}},
		{"out of range skipped", []int{-1, 2, 9}, []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := e.SplitByPages(doc, tt.pages)
			require.NoError(t, err)

			texts, err := PageTexts(out)
			require.NoError(t, err)
			require.Len(t, texts, len(tt.want))
			for i, src := range tt.want {
				assert.Contains(t, texts[i], fmt.Sprintf("Marker page %d", src))
			}
		})
	}
}

func TestSplitByPages_NoPages(t *testing.T) {
	doc := numberedFixture(t, 2)
	e := NewExtractor(DefaultOptions())

	_, err := e.SplitByPages(doc, nil)
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = e.SplitByPages(doc, []int{5, 7})
	assert.True(t, errors.Is(err, ErrNoPages))
}

func TestSplitByPages_DecodeError(t *testing.T) {
	_, err := NewExtractor(DefaultOptions()).SplitByPages([]byte("junk"), []int{0})
	require.Error(t, err)
	assert.True(t, IsDecodeError(err))
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(numberedFixture(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSelectPages(t *testing.T) {
	assert.Equal(t, []string{"1", "3"}, selectPages([]int{2, 0, 2}, 3))
	assert.Empty(t, selectPages([]int{4}, 3))
}
