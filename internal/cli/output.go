package cli

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// versionView is the JSON form of a stored version record.
type versionView struct {
	ID        string              `json:"id"`
	Parent    string              `json:"parent,omitempty"`
	Version   jsoniter.RawMessage `json:"version"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

func toVersionView(record versionstore.VersionRecord) versionView {
	return versionView{
		ID:        record.ID,
		Parent:    record.Parent,
		Version:   record.PayloadJSON,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toVersionViews(records versionstore.VersionRecords) []versionView {
	views := make([]versionView, 0, len(records))
	for _, record := range records {
		views = append(views, toVersionView(record))
	}

	return views
}

// documentView is a current document next to the id of its logical document. The document keeps
// its flat shape, so a payload field named parent can not be confused with it.
type documentView struct {
	Parent   string                       `json:"parent"`
	Document versionstore.CurrentDocument `json:"document"`
}

// pageView is the JSON form of a query result.
type pageView struct {
	Docs          []documentView `json:"docs"`
	TotalDocs     int            `json:"totalDocs"`
	Limit         int            `json:"limit,omitempty"`
	TotalPages    int            `json:"totalPages,omitempty"`
	Page          int            `json:"page,omitempty"`
	PagingCounter int            `json:"pagingCounter,omitempty"`
	HasPrevPage   bool           `json:"hasPrevPage"`
	HasNextPage   bool           `json:"hasNextPage"`
	PrevPage      *int           `json:"prevPage"`
	NextPage      *int           `json:"nextPage"`
}

func toPageView(result versionstore.PaginatedDocs) pageView {
	docs := make([]documentView, 0, len(result.Docs))
	for _, doc := range result.Docs {
		docs = append(docs, documentView{Parent: doc.Parent, Document: doc})
	}

	return pageView{
		Docs:          docs,
		TotalDocs:     result.TotalDocs,
		Limit:         result.Limit,
		TotalPages:    result.TotalPages,
		Page:          result.Page,
		PagingCounter: result.PagingCounter,
		HasPrevPage:   result.HasPrevPage,
		HasNextPage:   result.HasNextPage,
		PrevPage:      result.PrevPage,
		NextPage:      result.NextPage,
	}
}

func writeJSON(w io.Writer, v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	encoded = append(encoded, '\n')
	_, err = w.Write(encoded)

	return err
}
