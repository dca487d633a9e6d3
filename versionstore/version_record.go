package versionstore

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// VersionRecords is an alias type for a slice of VersionRecord.
type VersionRecords = []VersionRecord

// VersionRecord is one immutable stored edit of a logical document.
//
// Parent identifies the logical document, many VersionRecord(s) share one Parent.
// ID is assigned by the store when the record is saved.
//
// While its properties are exported, it should only be constructed with the supplied factory method BuildVersionRecord.
type VersionRecord struct {
	ID          string
	Parent      string
	PayloadJSON []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BuildVersionRecord is a factory method for VersionRecord.
//
// createdAt is the creation time of the logical document, updatedAt the time of this edit.
// Returns ErrInvalidPayloadJSON if payloadJSON is not a valid JSON object.
func BuildVersionRecord(parent string, payloadJSON []byte, createdAt time.Time, updatedAt time.Time) (VersionRecord, error) {
	if !isJSONObject(payloadJSON) {
		return VersionRecord{}, ErrInvalidPayloadJSON
	}

	return VersionRecord{
		Parent:      parent,
		PayloadJSON: payloadJSON,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func isJSONObject(data []byte) bool {
	if !jsoniter.ConfigFastest.Valid(data) {
		return false
	}

	return jsoniter.ConfigFastest.Get(data).ValueType() == jsoniter.ObjectValue
}
