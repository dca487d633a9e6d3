package postgresengine

import (
	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine/internal/adapters"
)

// NewStoreFromAdapter exposes the adapter based constructor to the external tests of this package.
func NewStoreFromAdapter(db adapters.DBAdapter, options ...Option) (Store, error) {
	return newStore(db, options...)
}
