package versionstore_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/versionstore-go/versionstore" //nolint:revive
)

func Test_SortOrder_Direction(t *testing.T) {
	assert.Equal(t, 1, SortAsc.Direction())
	assert.Equal(t, -1, SortDesc.Direction())
	assert.Equal(t, -1, SortOrder("").Direction(), "anything but asc sorts descending")
}

func Test_ParseSort(t *testing.T) {
	// act
	keys := ParseSort("-updatedAt, title ,,-meta.rating")

	// assert
	assert.Equal(t, []SortKey{
		{Field: "updatedAt", Order: SortDesc},
		{Field: "title", Order: SortAsc},
		{Field: "meta.rating", Order: SortDesc},
	}, keys)
}

func Test_RemapSortKeys(t *testing.T) {
	// arrange
	keys := []SortKey{
		{Field: "title", Order: SortAsc},
		{Field: "updatedAt", Order: SortDesc},
		{Field: "id", Order: SortAsc},
		{Field: "meta.rating", Order: SortDesc},
		{Field: "", Order: SortAsc},
	}

	// act
	remapped := RemapSortKeys(keys)

	// assert
	assert.Equal(t, []RemappedSortKey{
		{Path: FieldPath{"version", "title"}, Direction: 1},
		{Path: FieldPath{"updatedAt"}, Direction: -1},
		{Path: FieldPath{"id"}, Direction: 1},
		{Path: FieldPath{"version", "meta", "rating"}, Direction: -1},
	}, remapped)
}

func Test_RemapSortKeys_ShouldAgreeWithRewriteToVersion(t *testing.T) {
	for _, field := range []string{"id", "id.", ".updatedAt", "createdAt.at", "id.x", "title"} {
		t.Run(field, func(t *testing.T) {
			// act
			remapped := RemapSortKeys([]SortKey{{Field: field, Order: SortAsc}})
			rewritten := RewriteToVersion(Where(field, OpEquals, "x"))

			// assert
			assert.Len(t, remapped, 1)
			assert.Equal(t, rewritten.Path(), remapped[0].Path)
		})
	}
}

func Test_PaginateOptions_Validate(t *testing.T) {
	assert.NoError(t, PaginateOptions{}.Validate())
	assert.NoError(t, PaginateOptions{Page: 1_000_000, Limit: MaxLimit}.Validate())
	assert.True(t, errors.Is(PaginateOptions{Page: -1}.Validate(), ErrInvalidPagination))
	assert.True(t, errors.Is(PaginateOptions{Limit: -1}.Validate(), ErrInvalidPagination))
	assert.True(t, errors.Is(PaginateOptions{Limit: MaxLimit + 1}.Validate(), ErrInvalidPagination))
	assert.True(t, errors.Is(PaginateOptions{Page: math.MaxInt, Limit: 2}.Validate(), ErrInvalidPagination))
	assert.True(t, errors.Is(PaginateOptions{Page: math.MaxInt / 5}.Validate(), ErrInvalidPagination),
		"the default limit applies to the bound")
}

func Test_PaginateOptions_WithDefaults(t *testing.T) {
	// act
	opts := PaginateOptions{}.WithDefaults()

	// assert
	assert.Equal(t, DefaultPage, opts.Page)
	assert.Equal(t, DefaultLimit, opts.Limit)
	assert.Equal(t, []SortKey{{Field: FieldUpdatedAt, Order: SortDesc}}, opts.Sort)
}

func Test_BuildPage(t *testing.T) {
	docs := []CurrentDocument{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name          string
		total         int
		opts          PaginateOptions
		expectedPages int
		hasPrev       bool
		hasNext       bool
		counter       int
	}{
		{name: "first of three pages", total: 5, opts: PaginateOptions{Page: 1, Limit: 2}, expectedPages: 3, hasNext: true, counter: 1},
		{name: "middle page", total: 5, opts: PaginateOptions{Page: 2, Limit: 2}, expectedPages: 3, hasPrev: true, hasNext: true, counter: 3},
		{name: "last page", total: 5, opts: PaginateOptions{Page: 3, Limit: 2}, expectedPages: 3, hasPrev: true, counter: 5},
		{name: "no documents", total: 0, opts: PaginateOptions{Page: 1, Limit: 2}, expectedPages: 0, counter: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			page := BuildPage(docs, tc.total, tc.opts)

			// assert
			assert.Equal(t, tc.total, page.TotalDocs)
			assert.Equal(t, tc.expectedPages, page.TotalPages)
			assert.Equal(t, tc.hasPrev, page.HasPrevPage)
			assert.Equal(t, tc.hasNext, page.HasNextPage)
			assert.Equal(t, tc.counter, page.PagingCounter)

			if tc.hasPrev {
				assert.Equal(t, tc.opts.Page-1, *page.PrevPage)
			} else {
				assert.Nil(t, page.PrevPage)
			}

			if tc.hasNext {
				assert.Equal(t, tc.opts.Page+1, *page.NextPage)
			} else {
				assert.Nil(t, page.NextPage)
			}
		})
	}
}

func Test_BuildUnpaginated(t *testing.T) {
	// act
	result := BuildUnpaginated([]CurrentDocument{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	// assert
	assert.Equal(t, 3, result.TotalDocs)
	assert.Len(t, result.Docs, 3)
	assert.Zero(t, result.Page)
	assert.Zero(t, result.Limit)
	assert.Zero(t, result.TotalPages)
}
