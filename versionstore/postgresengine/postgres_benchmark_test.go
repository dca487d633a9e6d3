package postgresengine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper"
	"github.com/AntonStoeckl/versionstore-go/testutil/postgresengine/helper/postgreswrapper"
	"github.com/AntonStoeckl/versionstore-go/versionstore"
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine"
)

const (
	benchmarkCollection      = "bench_posts"
	benchmarkDocuments       = 200
	benchmarkVersionsPerDoc  = 5
	benchmarkPageLimit       = 20
	benchmarkArrangeDeadline = 2 * time.Minute
)

func givenManyVersionsInTheStore(b *testing.B, wrapper postgreswrapper.Wrapper) {
	b.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), benchmarkArrangeDeadline)
	defer cancel()

	store := wrapper.GetStore()
	fakeClock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	postgreswrapper.GivenCleanCollection(b, wrapper, benchmarkCollection)

	for i := range benchmarkDocuments {
		fakeClock = fakeClock.Add(time.Second)
		doc := helper.GivenDocumentWasCreated(b, ctx, store, benchmarkCollection, map[string]any{
			"title":  fmt.Sprintf("post %d", i),
			"status": "draft",
			"meta":   map[string]any{"rating": i % 10},
		}, fakeClock)

		for v := 1; v < benchmarkVersionsPerDoc; v++ {
			fakeClock = fakeClock.Add(time.Second)
			status := "draft"
			if v == benchmarkVersionsPerDoc-1 && i%2 == 0 {
				status = "published"
			}

			helper.GivenDocumentWasEdited(b, ctx, store, benchmarkCollection, doc, map[string]any{
				"title":  fmt.Sprintf("post %d v%d", i, v),
				"status": status,
				"meta":   map[string]any{"rating": (i + v) % 10},
			}, fakeClock)
		}
	}
}

func Benchmark_QueryCurrentVersions_With_Many_Versions_InTheStore(b *testing.B) {
	for _, facetCounting := range []bool{false, true} {
		// setup
		ctx := context.Background()
		wrapper := postgreswrapper.CreateWrapperWithTestConfig(b, postgresengine.WithFacetCounting(facetCounting))
		store := wrapper.GetStore()

		// arrange
		givenManyVersionsInTheStore(b, wrapper)

		args := postgresengine.QueryArgs{
			Collection: benchmarkCollection,
			Access:     versionstore.AllowAll(),
			Where:      versionstore.Where("status", versionstore.OpEquals, "published"),
			Pagination: &versionstore.PaginateOptions{
				Page:  2,
				Limit: benchmarkPageLimit,
				Sort:  versionstore.ParseSort("-meta.rating"),
			},
		}

		// act
		b.Run(fmt.Sprintf("query one page, facet counting %t", facetCounting), func(b *testing.B) {
			var queryTime time.Duration

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				start := time.Now()
				result, err := store.QueryCurrentVersions(ctx, args)
				queryTime += time.Since(start)

				b.StopTimer()
				assert.NoError(b, err)
				assert.Equal(b, benchmarkDocuments/2, result.TotalDocs)
				b.StartTimer()
			}

			b.ReportMetric(float64(queryTime.Microseconds())/1000/float64(b.N), "ms/query-op")
		})

		wrapper.Close()
	}
}

func Benchmark_SaveVersion(b *testing.B) {
	// setup
	ctx := context.Background()
	wrapper := postgreswrapper.CreateWrapperWithTestConfig(b)
	defer wrapper.Close()
	store := wrapper.GetStore()

	// arrange
	postgreswrapper.GivenCleanCollection(b, wrapper, benchmarkCollection)
	record, err := versionstore.BuildVersionRecord("", []byte(`{"title":"benchmark","status":"draft"}`), time.Time{}, time.Time{})
	assert.NoError(b, err)

	// act
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, saveErr := store.SaveVersion(ctx, benchmarkCollection, record)

		b.StopTimer()
		assert.NoError(b, saveErr)
		b.StartTimer()
	}
}
