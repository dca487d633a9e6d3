package versionstore

import (
	"slices"
	"strings"
)

// Envelope fields exist on the version record itself and, with the same names, on the current document view.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// FieldVersion is the root segment of the nested payload namespace inside a version record.
const FieldVersion = "version"

// FieldPath addresses a (possibly nested) field as a list of segments, e.g. ["version", "meta", "title"].
type FieldPath []string

// ParseFieldPath splits a dotted path like "meta.title" into segments.
// Empty segments are dropped, so "a..b" and ".a.b" both become ["a", "b"].
func ParseFieldPath(path string) FieldPath {
	segments := strings.Split(path, ".")
	segments = slices.DeleteFunc(segments, func(s string) bool { return s == "" })

	return FieldPath(slices.Clip(segments))
}

// String joins the segments with dots.
func (fp FieldPath) String() string {
	return strings.Join(fp, ".")
}

// Root returns the first segment or "" for an empty path.
func (fp FieldPath) Root() string {
	if len(fp) == 0 {
		return ""
	}

	return fp[0]
}

// Tail returns all segments after the root.
func (fp FieldPath) Tail() FieldPath {
	if len(fp) < 2 {
		return FieldPath{}
	}

	return slices.Clone(fp[1:])
}

// IsReserved reports whether the path is one of the envelope fields id, createdAt or updatedAt.
// Only single-segment paths can be reserved.
func (fp FieldPath) IsReserved() bool {
	if len(fp) != 1 {
		return false
	}

	return IsReservedField(fp[0])
}

// Prefixed returns a new path with the given segment in front.
func (fp FieldPath) Prefixed(segment string) FieldPath {
	prefixed := make(FieldPath, 0, len(fp)+1)
	prefixed = append(prefixed, segment)

	return append(prefixed, fp...)
}

// IsReservedField reports whether a top-level field name is an envelope field.
func IsReservedField(field string) bool {
	switch field {
	case FieldID, FieldCreatedAt, FieldUpdatedAt:
		return true
	default:
		return false
	}
}
