package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	filter := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, filter.Limit)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 0, filter.Offset)
	assert.True(t, filter.WithPagination)
	assert.Empty(t, filter.Search)
	assert.Empty(t, filter.Sort)
	assert.Empty(t, filter.Filter)
}

func TestParseFilterFromQuery_PageComputesOffset(t *testing.T) {
	values, err := url.ParseQuery("limit=50&page=3")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 50, filter.Limit)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 100, filter.Offset)
}

func TestParseFilterFromQuery_ExplicitOffsetWins(t *testing.T) {
	values, err := url.ParseQuery("limit=10&page=5&offset=7")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, 7, filter.Offset)
}

func TestParseFilterFromQuery_LimitClamped(t *testing.T) {
	values, err := url.ParseQuery("limit=100000")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, MaxLimit, filter.Limit)
}

func TestParseFilterFromQuery_SortAndFilter(t *testing.T) {
	values, err := url.ParseQuery("search=laptop&sort[created_at]=DESC&sort[name]=bogus&filter[current_status]=Working&filter[branch_id]=2")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.Equal(t, "laptop", filter.Search)
	assert.Equal(t, map[string]string{"created_at": "desc"}, filter.Sort)
	assert.Equal(t, "Working", filter.Filter["current_status"])
	assert.Equal(t, "2", filter.Filter["branch_id"])
}

func TestParseFilterFromQuery_WithPaginationOff(t *testing.T) {
	values, err := url.ParseQuery("withPagination=false")
	require.NoError(t, err)

	filter := ParseFilterFromQuery(values)

	assert.False(t, filter.WithPagination)
}
