package repositories

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-system/pkg/types"
)

var testFieldMap = map[string]string{
	"branch_id":      "a.branch_id",
	"current_status": "a.current_status",
	"created_at":     "a.created_at",
}

func baseBuilder() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("a.id").From("assets a")
}

func TestApplyListParams_SingleValueEquality(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"current_status": "Working"},
	}

	query, args, err := applyListParams(baseBuilder(), filter, testFieldMap).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "a.current_status = $1")
	assert.Equal(t, []interface{}{"Working"}, args)
}

func TestApplyListParams_CommaSeparatedValuesBecomeIn(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"branch_id": "1,2"},
	}

	query, args, err := applyListParams(baseBuilder(), filter, testFieldMap).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "a.branch_id IN ($1,$2)")
	assert.Equal(t, []interface{}{"1", "2"}, args)
}

func TestApplyListParams_UnknownKeysIgnored(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{"no_such_column": "x"},
		Sort:   map[string]string{"no_such_column": "desc"},
	}

	query, args, err := applyListParams(baseBuilder(), filter, testFieldMap).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "no_such_column")
	assert.Empty(t, args)
}

func TestApplyListParams_SortAndPagination(t *testing.T) {
	filter := types.Filter{
		Sort:           map[string]string{"created_at": "desc"},
		Limit:          25,
		Offset:         50,
		WithPagination: true,
	}

	query, _, err := applyListParams(baseBuilder(), filter, testFieldMap).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY a.created_at DESC")
	assert.Contains(t, query, "LIMIT 25")
	assert.Contains(t, query, "OFFSET 50")
}

func TestApplyListParams_NoPaginationMeansNoLimit(t *testing.T) {
	filter := types.Filter{Limit: 25, WithPagination: false}

	query, _, err := applyListParams(baseBuilder(), filter, testFieldMap).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
}
