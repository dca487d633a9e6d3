package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper"
	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper/postgreswrapper"
	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

func Test_ConsistencyRouting_DefaultsToStrongConsistency(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreatePGXWrapperWithReplica(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	doc := helper.GivenDocumentWasCreated(t, ctx, store, postsCollection, map[string]any{"title": "fresh"}, time.Now().UTC())

	// act
	result, err := store.QueryCurrentVersions(ctx, postgresengine.QueryArgs{Collection: postsCollection})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{doc.ID}, helper.DocIDs(result.Docs), "the version just saved is visible on the primary")
}

func Test_ConsistencyRouting_RespectsExplicitConsistency(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreatePGXWrapperWithReplica(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	doc := helper.GivenDocumentWasCreated(t, ctx, store, postsCollection, map[string]any{"title": "fresh"}, time.Now().UTC())
	args := postgresengine.QueryArgs{Collection: postsCollection}

	// act
	strongResult, strongErr := store.QueryCurrentVersions(versionstore.WithStrongConsistency(ctx), args)
	eventualResult, eventualErr := store.QueryCurrentVersions(versionstore.WithEventualConsistency(ctx), args)

	// assert
	assert.NoError(t, strongErr)
	assert.Equal(t, []string{doc.ID}, helper.DocIDs(strongResult.Docs))

	// the test replica has no lag, so both reads see the same data
	assert.NoError(t, eventualErr)
	assert.Equal(t, helper.DocIDs(strongResult.Docs), helper.DocIDs(eventualResult.Docs))
}
