package versionstore

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 10_000
)

// SortOrder is the logical sort direction token.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Direction maps the sort order to the numeric ordering directive: asc -> +1, anything else -> -1.
func (o SortOrder) Direction() int {
	if o == SortAsc {
		return 1
	}

	return -1
}

// SortKey requests ordering by one field of the current document view.
type SortKey struct {
	Field string
	Order SortOrder
}

// ParseSort parses a comma separated sort expression like "-updatedAt,title".
// A leading "-" sorts descending, everything else ascending.
func ParseSort(sort string) []SortKey {
	keys := make([]SortKey, 0)

	for _, part := range strings.Split(sort, ",") {
		part = strings.TrimSpace(part)

		order := SortAsc
		if strings.HasPrefix(part, "-") {
			order = SortDesc
			part = strings.TrimPrefix(part, "-")
		}

		if part == "" {
			continue
		}

		keys = append(keys, SortKey{Field: part, Order: order})
	}

	return keys
}

// RemappedSortKey is a SortKey translated into the version record address space.
type RemappedSortKey struct {
	Path      FieldPath
	Direction int
}

// RemapSortKeys translates sort keys of the current document view into the storage shape.
//
// The envelope fields id, createdAt and updatedAt are kept, every other field is rooted under the
// version payload, mirroring RewriteToVersion.
func RemapSortKeys(keys []SortKey) []RemappedSortKey {
	remapped := make([]RemappedSortKey, 0, len(keys))

	for _, key := range keys {
		path := ParseFieldPath(key.Field)
		if len(path) == 0 {
			continue
		}

		if !path.IsReserved() {
			path = path.Prefixed(FieldVersion)
		}

		remapped = append(remapped, RemappedSortKey{Path: path, Direction: key.Order.Direction()})
	}

	return remapped
}

// PaginateOptions selects one page of the result set and its ordering.
type PaginateOptions struct {
	Page  int
	Limit int
	Sort  []SortKey
}

// Validate rejects negative page numbers and limits, limits above MaxLimit, and pages whose
// last row number does not fit into an int.
func (po PaginateOptions) Validate() error {
	if po.Page < 0 {
		return fmt.Errorf("%w: page must not be negative, got %d", ErrInvalidPagination, po.Page)
	}

	if po.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidPagination, po.Limit)
	}

	if po.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must not exceed %d, got %d", ErrInvalidPagination, MaxLimit, po.Limit)
	}

	withDefaults := po.WithDefaults()
	if withDefaults.Page > math.MaxInt/withDefaults.Limit {
		return fmt.Errorf("%w: page %d is out of range", ErrInvalidPagination, po.Page)
	}

	return nil
}

// WithDefaults fills in page 1, limit 10 and "-updatedAt" for unset values.
func (po PaginateOptions) WithDefaults() PaginateOptions {
	if po.Page == 0 {
		po.Page = DefaultPage
	}

	if po.Limit == 0 {
		po.Limit = DefaultLimit
	}

	if len(po.Sort) == 0 {
		po.Sort = []SortKey{{Field: FieldUpdatedAt, Order: SortDesc}}
	}

	return po
}

// Offset returns the number of rows to skip for the selected page.
func (po PaginateOptions) Offset() int {
	if po.Page < 1 {
		return 0
	}

	return (po.Page - 1) * po.Limit
}

// PaginatedDocs is one page of current documents plus page information.
// Results of a query without pagination options only carry Docs and TotalDocs.
type PaginatedDocs struct {
	Docs          []CurrentDocument `json:"docs"`
	TotalDocs     int               `json:"totalDocs"`
	Limit         int               `json:"limit,omitempty"`
	TotalPages    int               `json:"totalPages,omitempty"`
	Page          int               `json:"page,omitempty"`
	PagingCounter int               `json:"pagingCounter,omitempty"`
	HasPrevPage   bool              `json:"hasPrevPage"`
	HasNextPage   bool              `json:"hasNextPage"`
	PrevPage      *int              `json:"prevPage"`
	NextPage      *int              `json:"nextPage"`
}

// BuildPage assembles the page information for docs of the page selected by opts out of totalDocs.
func BuildPage(docs []CurrentDocument, totalDocs int, opts PaginateOptions) PaginatedDocs {
	opts = opts.WithDefaults()

	totalPages := 0
	if totalDocs > 0 {
		totalPages = (totalDocs + opts.Limit - 1) / opts.Limit
	}

	page := PaginatedDocs{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         opts.Limit,
		TotalPages:    totalPages,
		Page:          opts.Page,
		PagingCounter: opts.Offset() + 1,
		HasPrevPage:   opts.Page > 1,
		HasNextPage:   opts.Page < totalPages,
	}

	if page.HasPrevPage {
		prev := opts.Page - 1
		page.PrevPage = &prev
	}

	if page.HasNextPage {
		next := opts.Page + 1
		page.NextPage = &next
	}

	return page
}

// BuildUnpaginated wraps all docs of a query without pagination options.
func BuildUnpaginated(docs []CurrentDocument) PaginatedDocs {
	return PaginatedDocs{
		Docs:      docs,
		TotalDocs: len(docs),
	}
}
