package versionstore_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/versionstore-go/versionstore" //nolint:revive
)

func Test_ParseWhereJSON_When_InputIsEmpty(t *testing.T) {
	// act
	where, err := ParseWhereJSON(nil)

	// assert
	assert.NoError(t, err)
	assert.True(t, where.IsEmpty())
}

func Test_ParseWhereJSON_When_SingleFieldSingleOperator(t *testing.T) {
	// act
	where, err := ParseWhereJSON([]byte(`{"title": {"equals": "v1"}}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, Where("title", OpEquals, "v1"), where)
}

func Test_ParseWhereJSON_When_FieldHasMultipleOperators(t *testing.T) {
	// act
	where, err := ParseWhereJSON([]byte(`{"meta.rating": {"less_than": 5, "greater_than": 3}}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, And(
		Where("meta.rating", OpGreaterThan, float64(3)),
		Where("meta.rating", OpLessThan, float64(5)),
	), where)
}

func Test_ParseWhereJSON_When_LogicalGroupsAreNested(t *testing.T) {
	// arrange
	input := []byte(`{
		"or": [
			{"status": {"equals": "draft"}},
			{"and": [{"status": {"equals": "review"}}, {"author": {"equals": "u1"}}]}
		],
		"title": {"like": "hello"}
	}`)

	// act
	where, err := ParseWhereJSON(input)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, And(
		Or(
			Where("status", OpEquals, "draft"),
			And(Where("status", OpEquals, "review"), Where("author", OpEquals, "u1")),
		),
		Where("title", OpLike, "hello"),
	), where)
}

func Test_ParseWhereJSON_ErrorCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid json", input: `{"title": `},
		{name: "unknown operator", input: `{"title": {"matches": "x"}}`},
		{name: "conditions are not an object", input: `{"title": "x"}`},
		{name: "empty conditions", input: `{"title": {}}`},
		{name: "or is not a list", input: `{"or": {"title": {"equals": "x"}}}`},
		{name: "and element is not an object", input: `{"and": ["x"]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := ParseWhereJSON([]byte(tc.input))

			// assert
			assert.True(t, errors.Is(err, ErrMalformedFilter), "expected ErrMalformedFilter, got %v", err)
		})
	}
}
