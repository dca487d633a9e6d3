package postgresengine_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper"
	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper/postgreswrapper"
	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

const postsCollection = "posts"

func Test_QueryCurrentVersions_When_DocumentsHaveSeveralVersions(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	docA := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	fakeClock = fakeClock.Add(time.Minute)
	docAv2 := helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, docA, map[string]any{"title": "v2"}, fakeClock)
	fakeClock = fakeClock.Add(time.Minute)
	docB := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "x"}, fakeClock)

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
		Collection: postsCollection,
		Access:     versionstore.AllowAll(),
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{docB.ID, docAv2.ID}, helper.DocIDs(result.Docs), "newest first, one document per parent")
	assert.Equal(t, "x", result.Docs[0].Get("title"))
	assert.Equal(t, "v2", result.Docs[1].Get("title"))
	assert.Equal(t, docA.CreatedAt, result.Docs[1].CreatedAt.UTC())
	assert.Equal(t, 2, result.TotalDocs)
}

func Test_QueryCurrentVersions_When_AccessIsDenied_OnAPopulatedCollection(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	docA := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, docA, map[string]any{"title": "v2"}, fakeClock.Add(time.Minute))

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
		Collection: postsCollection,
		Access:     versionstore.DenyAll(),
		Pagination: &versionstore.PaginateOptions{},
	})

	// assert
	assert.NoError(t, err)
	assert.Empty(t, result.Docs)
	assert.Equal(t, 0, result.TotalDocs)
}

func Test_QueryCurrentVersions_ShouldFilterAfterResolvingTheCurrentVersion(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	docA := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, docA, map[string]any{"title": "v2"}, fakeClock.Add(time.Minute))
	helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock.Add(2*time.Minute))

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
		Collection: postsCollection,
		Where:      versionstore.Where("title", versionstore.OpEquals, "v1"),
	})

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Docs, 1, "an outdated version must never match")
	assert.NotEqual(t, docA.ID, result.Docs[0].ID)
}

func Test_QueryCurrentVersions_When_AccessIsConditional(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	own := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "a", "author": "u1"}, fakeClock)
	helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "b", "author": "u2"}, fakeClock)
	// the newest version no longer belongs to u1
	moved := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "c", "author": "u1"}, fakeClock)
	helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, moved, map[string]any{"title": "c", "author": "u2"}, fakeClock.Add(time.Minute))

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
		Collection: postsCollection,
		Access:     versionstore.Conditional(versionstore.Where("author", versionstore.OpEquals, "u1")),
		Request:    versionstore.RequestContext{Actor: "u1", Collection: postsCollection},
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{own.ID}, helper.DocIDs(result.Docs))
}

func Test_QueryCurrentVersions_ShouldPaginateAndSortOverThePayload(t *testing.T) {
	for _, useFacet := range []bool{false, true} {
		t.Run(map[bool]string{false: "count query", true: "facet counting"}[useFacet], func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			wrapper := postgreswrapper.CreateWrapperWithTestConfig(t, postgresengine.WithFacetCounting(useFacet))
			defer wrapper.Close()
			store := wrapper.GetStore()

			fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

			// arrange
			postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
			ids := make(map[int]string)
			for rating := 1; rating <= 5; rating++ {
				fakeClock = fakeClock.Add(time.Second)
				doc := helper.GivenDocumentWasCreated(
					t, ctxWithTimeout, store, postsCollection,
					map[string]any{"title": "post", "meta": map[string]any{"rating": rating}},
					fakeClock,
				)
				ids[rating] = doc.ID
			}

			// act
			result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
				Collection: postsCollection,
				Pagination: &versionstore.PaginateOptions{
					Page:  2,
					Limit: 2,
					Sort:  versionstore.ParseSort("-meta.rating"),
				},
			})

			// assert
			assert.NoError(t, err)
			assert.Equal(t, []string{ids[3], ids[2]}, helper.DocIDs(result.Docs))
			assert.Equal(t, 5, result.TotalDocs)
			assert.Equal(t, 3, result.TotalPages)
			assert.True(t, result.HasPrevPage)
			assert.True(t, result.HasNextPage)
		})
	}
}

func Test_QueryCurrentVersions_When_FilteringByIDAndTimestamps(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	older := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "a"}, fakeClock)
	newer := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "b"}, fakeClock.Add(time.Hour))

	tests := []struct {
		name     string
		where    versionstore.Predicate
		expected []string
	}{
		{name: "by id", where: versionstore.Where("id", versionstore.OpEquals, older.ID), expected: []string{older.ID}},
		{name: "by malformed id", where: versionstore.Where("id", versionstore.OpEquals, "not-a-uuid"), expected: []string{}},
		{
			name:     "by updatedAt",
			where:    versionstore.Where("updatedAt", versionstore.OpGreaterThan, fakeClock.Add(time.Minute)),
			expected: []string{newer.ID},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
				Collection: postsCollection,
				Where:      tc.where,
			})

			// assert
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, helper.DocIDs(result.Docs))
		})
	}
}

func Test_QueryCurrentVersions_When_FilteringPayloadFieldsOfMixedTypes(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	number := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"rating": 5, "title": "Hello"}, fakeClock)
	boolean := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"rating": true, "title": "Bye"}, fakeClock)
	object := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"rating": map[string]any{"x": 1}, "title": []string{"yell", "ell"}}, fakeClock)
	helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"rating": "9", "title": []string{"yell"}}, fakeClock)

	tests := []struct {
		name     string
		where    versionstore.Predicate
		expected []string
	}{
		{name: "greater than only compares numbers", where: versionstore.Where("rating", versionstore.OpGreaterThan, 3), expected: []string{number.ID}},
		{name: "less than only compares numbers", where: versionstore.Where("rating", versionstore.OpLessThan, 100), expected: []string{number.ID}},
		{name: "contains matches substrings and array elements", where: versionstore.Where("title", versionstore.OpContains, "ell"), expected: []string{number.ID, object.ID}},
		{name: "contains ignores the case of substrings", where: versionstore.Where("title", versionstore.OpContains, "BY"), expected: []string{boolean.ID}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
				Collection: postsCollection,
				Where:      tc.where,
			})

			// assert
			assert.NoError(t, err)
			assert.ElementsMatch(t, tc.expected, helper.DocIDs(result.Docs))
		})
	}
}

func Test_FindVersions_ShouldReturnTheWholeHistoryOfOneDocument(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	first := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	second := helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, first, map[string]any{"title": "v2"}, fakeClock.Add(time.Minute))
	helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "other"}, fakeClock)

	// act
	history, err := store.FindVersions(ctxWithTimeout, postsCollection, first.ID)

	// assert
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[0].Parent)
	assert.Equal(t, first.ID, history[1].ID)
	assert.Empty(t, history[1].Parent)
	assert.JSONEq(t, `{"title":"v1"}`, string(history[1].PayloadJSON))
}

func Test_SaveVersion_When_EditingAVersionInsteadOfTheDocument(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	first := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	second := helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, first, map[string]any{"title": "v2"}, fakeClock.Add(time.Minute))

	// act
	third := helper.GivenVersionWasSaved(
		t, ctxWithTimeout, store, postsCollection,
		second.ID, map[string]any{"title": "v3"},
		time.Time{}, fakeClock.Add(2*time.Minute),
	)

	// assert
	assert.Equal(t, first.ID, third.Parent, "the edit must join the document, not the version")
	assert.Equal(t, first.CreatedAt, third.CreatedAt.UTC(), "createdAt is inherited from the first version")

	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{Collection: postsCollection})
	assert.NoError(t, err)
	assert.Equal(t, []string{third.ID}, helper.DocIDs(result.Docs), "one document, not two")
	assert.Equal(t, first.ID, result.Docs[0].Parent)
	assert.Equal(t, first.CreatedAt, result.Docs[0].CreatedAt.UTC())

	history, err := store.FindVersions(ctxWithTimeout, postsCollection, second.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 3, "any version id finds the whole history")
}

func Test_QueryCurrentVersions_When_VersionsHaveNoParent(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	docA := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "a"}, fakeClock)
	docB := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "b"}, fakeClock)

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{Collection: postsCollection})

	// assert
	assert.NoError(t, err)
	assert.Len(t, result.Docs, 2, "each version without a parent is a document of its own")
	assert.ElementsMatch(t, []string{docA.ID, docB.ID}, helper.DocIDs(result.Docs))

	for _, doc := range result.Docs {
		assert.Equal(t, doc.ID, doc.Parent)
	}
}

func Test_QueryCurrentVersions_When_ParentDoesNotExist(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	helper.GivenVersionWasSaved(t, ctxWithTimeout, store, postsCollection, "deleted-document", map[string]any{"title": "v1"}, fakeClock, fakeClock)
	latest := helper.GivenVersionWasSaved(
		t, ctxWithTimeout, store, postsCollection,
		"deleted-document", map[string]any{"title": "v2"},
		fakeClock, fakeClock.Add(time.Minute),
	)

	// act
	result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{Collection: postsCollection})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []string{latest.ID}, helper.DocIDs(result.Docs), "versions sharing a missing parent still form one group")
	assert.Equal(t, "deleted-document", result.Docs[0].Parent)
}

func Test_QueryCurrentVersions_When_VersionsOfOneDocumentHaveTheSameUpdatedAt(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	doc := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)
	earlier := helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, doc, map[string]any{"title": "a"}, fakeClock.Add(time.Minute))
	later := helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, doc, map[string]any{"title": "b"}, fakeClock.Add(time.Minute))
	assert.Greater(t, later.ID, earlier.ID, "ids of later saves sort after earlier ones")

	for _, pagination := range []*versionstore.PaginateOptions{nil, {Limit: 5}} {
		// act
		result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
			Collection: postsCollection,
			Pagination: pagination,
		})

		// assert
		assert.NoError(t, err)
		assert.Equal(t, []string{later.ID}, helper.DocIDs(result.Docs), "the higher id wins a tie")
		assert.Equal(t, "b", result.Docs[0].Get("title"))
	}
}

func Test_QueryCurrentVersions_When_Paginated_ShouldMatchTheUnpaginatedResult(t *testing.T) {
	for _, useFacet := range []bool{false, true} {
		t.Run(map[bool]string{false: "count query", true: "facet counting"}[useFacet], func(t *testing.T) {
			// setup
			ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			wrapper := postgreswrapper.CreateWrapperWithTestConfig(t, postgresengine.WithFacetCounting(useFacet))
			defer wrapper.Close()
			store := wrapper.GetStore()

			fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

			// arrange
			postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
			docs := make([]versionstore.VersionRecord, 0, 6)
			for n := range 6 {
				status := "published"
				if n == 2 {
					status = "draft"
				}

				// pairs of documents share their updatedAt
				at := fakeClock.Add(time.Duration(n/2) * time.Minute)
				docs = append(docs, helper.GivenDocumentWasCreated(
					t, ctxWithTimeout, store, postsCollection,
					map[string]any{"status": status, "n": n},
					at,
				))
			}
			helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, docs[1], map[string]any{"status": "published", "n": 1}, fakeClock.Add(10*time.Minute))
			helper.GivenDocumentWasEdited(t, ctxWithTimeout, store, postsCollection, docs[3], map[string]any{"status": "draft", "n": 3}, fakeClock.Add(10*time.Minute))

			where := versionstore.Where("status", versionstore.OpEquals, "published")

			// act
			all, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
				Collection: postsCollection,
				Where:      where,
			})
			assert.NoError(t, err)

			paged := make([]string, 0)
			for page := 1; ; page++ {
				result, pageErr := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{
					Collection: postsCollection,
					Where:      where,
					Pagination: &versionstore.PaginateOptions{Page: page, Limit: 3, Sort: versionstore.ParseSort("-updatedAt")},
				})
				assert.NoError(t, pageErr)
				assert.Equal(t, all.TotalDocs, result.TotalDocs)

				paged = append(paged, helper.DocIDs(result.Docs)...)

				if !result.HasNextPage || page > 5 {
					break
				}
			}

			// assert
			assert.Equal(t, 4, all.TotalDocs)
			assert.Equal(t, helper.DocIDs(all.Docs), paged, "pages must concatenate to the unpaginated result")
		})
	}
}

func Test_QueryCurrentVersions_ShouldBeSafeForConcurrentUse(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logHandler := helper.NewLogHandlerSpy(false)
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t, postgresengine.WithLogger(slog.New(logHandler)))
	defer wrapper.Close()
	store := wrapper.GetStore()

	fakeClock := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	// arrange
	postgreswrapper.GivenCleanCollection(t, wrapper, postsCollection)
	doc := helper.GivenDocumentWasCreated(t, ctxWithTimeout, store, postsCollection, map[string]any{"title": "v1"}, fakeClock)

	// act
	var wg sync.WaitGroup
	results := make(chan versionstore.PaginatedDocs, 10)
	errs := make(chan error, 10)

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := store.QueryCurrentVersions(ctxWithTimeout, postgresengine.QueryArgs{Collection: postsCollection})
			results <- result
			errs <- err
		}()
	}

	wg.Wait()
	close(results)
	close(errs)

	// assert
	for err := range errs {
		assert.NoError(t, err)
	}

	for result := range results {
		assert.Equal(t, []string{doc.ID}, helper.DocIDs(result.Docs))
	}

	assert.True(t, logHandler.HasInfoLogWithMessage("versionstore operation: current versions queried").Assert())
}
