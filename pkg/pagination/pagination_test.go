package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 40, NormalizeLimit(40))
	assert.Equal(t, MaxLimit, NormalizeLimit(5000))
}

func TestParamsOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 12}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 12}.Offset())
	assert.Equal(t, 48, Params{Page: 5, Limit: 12}.Offset())
}

func TestNewMetaDerivesTotals(t *testing.T) {
	meta := NewMeta(Params{Page: 2, Limit: 12}, 25)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 12, meta.Limit)
	assert.Equal(t, int64(25), meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasPrev())
	assert.True(t, meta.HasNext())
}

func TestNewMetaClampsPageAfterShrink(t *testing.T) {
	// Page 5 was valid before a filter change dropped the result set.
	meta := NewMeta(Params{Page: 5, Limit: 12}, 13)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNext())
}

func TestNewMetaEmptyResult(t *testing.T) {
	meta := NewMeta(Params{Page: 3, Limit: 12}, 0)
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasPrev() && meta.HasNext())
}

func TestVisiblePagesCenteredWindow(t *testing.T) {
	got := VisiblePages(7, 20, 5)
	assert.Equal(t, []int{1, Ellipsis, 5, 6, 7, 8, 9, Ellipsis, 20}, got)
}

func TestVisiblePagesSinglePageRendersNothing(t *testing.T) {
	assert.Nil(t, VisiblePages(1, 1, 5))
	assert.Nil(t, VisiblePages(1, 0, 5))
}

func TestVisiblePagesClampsAtStart(t *testing.T) {
	got := VisiblePages(1, 20, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5, Ellipsis, 20}, got)
}

func TestVisiblePagesClampsAtEnd(t *testing.T) {
	got := VisiblePages(20, 20, 5)
	assert.Equal(t, []int{1, Ellipsis, 16, 17, 18, 19, 20}, got)
}

func TestVisiblePagesGapOfOneShowsPageNumber(t *testing.T) {
	// Window [3..7] of 9: both gaps are a single page, so 2 and 8 render
	// instead of ellipsis markers.
	got := VisiblePages(5, 9, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestVisiblePagesOutOfRangeCurrent(t *testing.T) {
	got := VisiblePages(42, 10, 5)
	assert.Equal(t, VisiblePages(10, 10, 5), got)
}

func TestVisiblePagesSmallTotals(t *testing.T) {
	got := VisiblePages(2, 3, 5)
	assert.Equal(t, []int{1, 2, 3}, got)
}
