package repositories

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"asset-system/pkg/types"
)

// applyListParams maps whitelisted filter/sort keys onto builder clauses.
// Keys absent from fieldMap are ignored rather than rejected, so stray
// query parameters never break a listing.
func applyListParams(b sq.SelectBuilder, filter types.Filter, fieldMap map[string]string) sq.SelectBuilder {
	for key, value := range filter.Filter {
		column, ok := fieldMap[key]
		if !ok {
			continue
		}
		// Comma-separated values become an IN clause.
		if items, ok := value.(string); ok && strings.Contains(items, ",") {
			b = b.Where(sq.Eq{column: strings.Split(items, ",")})
		} else {
			b = b.Where(sq.Eq{column: value})
		}
	}

	for key, dir := range filter.Sort {
		column, ok := fieldMap[key]
		if !ok {
			continue
		}
		if strings.EqualFold(dir, "desc") {
			b = b.OrderBy(column + " DESC")
		} else {
			b = b.OrderBy(column + " ASC")
		}
	}

	if filter.WithPagination && filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	return b
}

// acquireSequenceLock serializes identifier generation for one prefix
// within the surrounding transaction. The lock releases on commit or
// rollback.
const acquireSequenceLock = `SELECT pg_advisory_xact_lock(hashtext($1))`
