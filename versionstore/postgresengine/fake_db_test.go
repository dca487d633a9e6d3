package postgresengine_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AntonStoeckl/versionstore-go/versionstore/postgresengine/internal/adapters"
)

// fakeDB is a scripted adapters.DBAdapter: each Query call consumes the next scripted response.
type fakeDB struct {
	mu        sync.Mutex
	responses []fakeResponse
	queries   []string
	execs     []string
	execErr   error
	affected  int64
}

type fakeResponse struct {
	rows [][]any
	err  error
}

func newFakeDB(responses ...fakeResponse) *fakeDB {
	return &fakeDB{responses: responses, affected: 1}
}

func (f *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, query)

	if len(f.responses) == 0 {
		return &fakeRows{}, nil
	}

	response := f.responses[0]
	f.responses = f.responses[1:]

	if response.err != nil {
		return nil, response.err
	}

	return &fakeRows{rows: response.rows, index: -1}, nil
}

func (f *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.execs = append(f.execs, query)

	if f.execErr != nil {
		return nil, f.execErr
	}

	return fakeResult{affected: f.affected}, nil
}

func (f *fakeDB) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.queries...)
}

func (f *fakeDB) Execs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.execs...)
}

type fakeRows struct {
	rows   [][]any
	index  int
	closed bool
}

func (r *fakeRows) Next() bool {
	r.index++
	return r.index < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.index]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expects %d columns, row has %d", len(dest), len(row))
	}

	for i, value := range row {
		switch d := dest[i].(type) {
		case *string:
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into string", i, value)
			}
			*d = v
		case *[]byte:
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into []byte", i, value)
			}
			*d = []byte(v)
		case *time.Time:
			v, ok := value.(time.Time)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into time.Time", i, value)
			}
			*d = v
		case *int64:
			v, ok := value.(int)
			if !ok {
				return fmt.Errorf("column %d: cannot scan %T into int64", i, value)
			}
			*d = int64(v)
		default:
			return fmt.Errorf("column %d: unsupported destination %T", i, dest[i])
		}
	}

	return nil
}

func (r *fakeRows) Err() error {
	return nil
}

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

type fakeResult struct {
	affected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.affected, nil
}

// resolvedRow builds one scripted pipeline row: id, parent, version, created_at, updated_at.
func resolvedRow(id, parent, versionJSON string, createdAt, updatedAt time.Time) []any {
	return []any{id, parent, versionJSON, createdAt, updatedAt}
}

// withTotal appends the facet total column to a scripted pipeline row.
func withTotal(row []any, total int) []any {
	return append(row, total)
}
