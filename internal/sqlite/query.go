package sqlite

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
)

// caseColumns are the cases columns mapped onto types.Case. Legacy columns
// are never selected.
var caseColumns = []string{
	"id", "title", "date_occurred", "status", "is_murder", "victim_count",
	"mo_description", "victim_profile",
	"crime_scene_address", "crime_scene_lat", "crime_scene_lon",
	"body_found_address", "body_found_lat", "body_found_lon",
	"created_at",
}

// qualified prefixes each column with alias and keeps the bare name as the
// result column.
func qualified(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprintf("%s.%s AS %s", alias, c, c)
	}
	return out
}

// inChunk bounds the number of ids bound into one IN list.
const inChunk = 500

// labelRow is one (owner, label) pair read from an association table.
type labelRow struct {
	OwnerID int64  `db:"owner_id"`
	Label   string `db:"label"`
}

// loadLabels reads label values from an association table for the given
// owner ids, in the order given by orderBy, grouped by owner.
func loadLabels(ctx context.Context, q sqlx.QueryerContext, table, ownerCol, labelCol, orderBy string, ids []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(ids))
	for start := 0; start < len(ids); start += inChunk {
		end := min(start+inChunk, len(ids))

		sb := sqlbuilder.SQLite.NewSelectBuilder()
		sb.Select(ownerCol+" AS owner_id", labelCol+" AS label")
		sb.From(table)
		sb.Where(sb.In(ownerCol, sqlbuilder.Flatten(ids[start:end])...))
		sb.OrderBy(ownerCol, orderBy)
		query, args := sb.Build()

		var rows []labelRow
		if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("loading %s: %w", table, err)
		}
		for _, r := range rows {
			out[r.OwnerID] = append(out[r.OwnerID], r.Label)
		}
	}
	return out, nil
}

// crimeTypesFor loads crime types in primary-first order.
func crimeTypesFor(ctx context.Context, q sqlx.QueryerContext, caseIDs []int64) (map[int64][]string, error) {
	return loadLabels(ctx, q, "case_crime_types", "case_id", "crime_type", "sort_order, id", caseIDs)
}

// tagsFor loads tags in insertion order.
func tagsFor(ctx context.Context, q sqlx.QueryerContext, caseIDs []int64) (map[int64][]string, error) {
	return loadLabels(ctx, q, "case_tags", "case_id", "tag", "id", caseIDs)
}

// nonNilStrings returns s, or an empty slice in place of nil.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
