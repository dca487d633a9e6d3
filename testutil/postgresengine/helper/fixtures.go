package helper

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

// GivenDocumentWasCreated saves the first version of a new logical document and returns it.
// Its id is the parent of all later versions.
func GivenDocumentWasCreated(
	t testing.TB,
	ctx context.Context,
	store postgresengine.Store,
	collection string,
	payload map[string]any,
	at time.Time,
) versionstore.VersionRecord {

	t.Helper()

	return GivenVersionWasSaved(t, ctx, store, collection, "", payload, at, at)
}

// GivenDocumentWasEdited saves a further version of the logical document identified by parent.
func GivenDocumentWasEdited(
	t testing.TB,
	ctx context.Context,
	store postgresengine.Store,
	collection string,
	parent versionstore.VersionRecord,
	payload map[string]any,
	at time.Time,
) versionstore.VersionRecord {

	t.Helper()

	return GivenVersionWasSaved(t, ctx, store, collection, parent.ID, payload, parent.CreatedAt, at)
}

// GivenVersionWasSaved saves one version record with the given payload.
func GivenVersionWasSaved(
	t testing.TB,
	ctx context.Context,
	store postgresengine.Store,
	collection string,
	parent string,
	payload map[string]any,
	createdAt time.Time,
	updatedAt time.Time,
) versionstore.VersionRecord {

	t.Helper()

	payloadJSON, err := jsoniter.ConfigFastest.Marshal(payload)
	assert.NoError(t, err, "error in arranging test data")

	record, err := versionstore.BuildVersionRecord(parent, payloadJSON, createdAt, updatedAt)
	assert.NoError(t, err, "error in arranging test data")

	saved, err := store.SaveVersion(ctx, collection, record)
	assert.NoError(t, err, "error in arranging test data")

	return saved
}

// DocIDs returns the ids of the documents in result order.
func DocIDs(docs []versionstore.CurrentDocument) []string {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	return ids
}
