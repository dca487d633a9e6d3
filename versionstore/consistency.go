package versionstore

import "context"

// ConsistencyLevel selects which database a read is served from.
type ConsistencyLevel int

const (
	// StrongConsistency reads from the primary, so a version is visible right after it was saved.
	// It applies whenever the context carries no level.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency lets a replica serve the read. A version saved a moment ago
	// may be missing from the result until the replica has caught up.
	EventualConsistency
)

type contextKey string

// ConsistencyLevelKey is the context key under which the level is stored.
const ConsistencyLevelKey contextKey = "versionstore.consistency_level"

// WithStrongConsistency pins the reads made with ctx to the primary.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency allows the reads made with ctx to go to a replica, if one is configured.
//
//	ctx = versionstore.WithEventualConsistency(ctx)
//	page, err := store.QueryCurrentVersions(ctx, args)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel returns the level stored in ctx, StrongConsistency if there is none.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel)
	if !ok {
		return StrongConsistency
	}

	return level
}

func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	}

	return "unknown"
}
