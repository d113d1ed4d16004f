package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_Basic(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	page := Paginate(items, 1, 5)

	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasPrev)
	assert.True(t, page.HasNext)
	assert.Equal(t, len(items), page.Total)
}

func TestPaginate_LastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	page := Paginate(items, 2, 4)

	assert.Equal(t, []int{5, 6}, page.Items)
	assert.True(t, page.HasPrev)
	assert.False(t, page.HasNext)
}

func TestPaginate_Defaults(t *testing.T) {
	var items []int
	page := Paginate(items, 0, 0)

	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.False(t, page.HasNext || page.HasPrev)
}

func TestPaginate_PageSizeCapped(t *testing.T) {
	page := Paginate([]int{1}, 1, MaxPageSize*10)
	assert.Equal(t, MaxPageSize, page.PageSize)
}

func TestPageOf(t *testing.T) {
	page := PageOf([]string{"c", "d"}, 2, 2, 5)

	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasPrev)
	assert.True(t, page.HasNext)

	last := PageOf([]string{"e"}, 3, 2, 5)
	assert.False(t, last.HasNext)

	empty := PageOf[string](nil, 1, 10, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))
	assert.Equal(t, 0, Offset(-1, 10))
}
