package versionstore

import (
	"errors"
	"maps"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResolvedRow is one row produced by the version resolution pipeline before reshaping:
// the winning version's id, the id of its logical document, its payload, and the envelope
// timestamps of the group.
type ResolvedRow struct {
	ID          string
	Parent      string
	VersionJSON []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CurrentDocument is the derived "latest version" view of a logical document.
//
// Fields holds the payload fields of the winning version. The envelope values ID, CreatedAt and
// UpdatedAt are kept separately and take precedence over payload fields of the same name.
//
// Parent identifies the logical document, it is the id of its first version. It is not part of the
// flat view; pass it as the parent of the next edit or to FindVersions.
type CurrentDocument struct {
	ID        string
	Parent    string
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReshapeCurrent flattens a ResolvedRow {id, version: {...}, updatedAt, createdAt}
// into a CurrentDocument {id, ...payload fields, updatedAt, createdAt}.
func ReshapeCurrent(row ResolvedRow) (CurrentDocument, error) {
	fields := make(map[string]any)

	if len(row.VersionJSON) > 0 {
		if err := json.Unmarshal(row.VersionJSON, &fields); err != nil {
			return CurrentDocument{}, errors.Join(ErrDecodingPayloadFailed, err)
		}
	}

	delete(fields, FieldID)
	delete(fields, FieldCreatedAt)
	delete(fields, FieldUpdatedAt)

	parent := row.Parent
	if parent == "" {
		parent = row.ID
	}

	return CurrentDocument{
		ID:        row.ID,
		Parent:    parent,
		Fields:    fields,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Get returns the value of a top-level field of the current document, envelope fields included.
func (cd CurrentDocument) Get(field string) any {
	switch field {
	case FieldID:
		return cd.ID
	case FieldCreatedAt:
		return cd.CreatedAt
	case FieldUpdatedAt:
		return cd.UpdatedAt
	default:
		return cd.Fields[field]
	}
}

// Flatten returns the flat map view {id, ...fields, createdAt, updatedAt}.
func (cd CurrentDocument) Flatten() map[string]any {
	flat := make(map[string]any, len(cd.Fields)+3)
	maps.Copy(flat, cd.Fields)

	flat[FieldID] = cd.ID
	flat[FieldCreatedAt] = cd.CreatedAt.UTC().Format(time.RFC3339Nano)
	flat[FieldUpdatedAt] = cd.UpdatedAt.UTC().Format(time.RFC3339Nano)

	return flat
}

// MarshalJSON renders the flat document shape.
func (cd CurrentDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(cd.Flatten())
}

// DecodeDocs converts current documents into a typed representation via their JSON form.
func DecodeDocs[T any](docs []CurrentDocument) ([]T, error) {
	typed := make([]T, 0, len(docs))

	for _, doc := range docs {
		data, err := doc.MarshalJSON()
		if err != nil {
			return nil, errors.Join(ErrDecodingPayloadFailed, err)
		}

		var item T
		if err = json.Unmarshal(data, &item); err != nil {
			return nil, errors.Join(ErrDecodingPayloadFailed, err)
		}

		typed = append(typed, item)
	}

	return typed, nil
}
