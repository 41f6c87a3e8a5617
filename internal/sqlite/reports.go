package sqlite

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.ReportTable = (*reportsTable)(nil)

type reportsTable struct {
	backend *Backend
}

// primaryCrimeTypeExpr selects the lowest-ordered crime type of c, or "".
const primaryCrimeTypeExpr = "COALESCE((SELECT crime_type FROM case_crime_types WHERE case_id = c.id ORDER BY sort_order, id LIMIT 1), '') AS primary_crime_type"

// CasesWithCoordinates returns cases that have crime-scene coordinates,
// newest first, with marker color and status icon filled for map views.
func (rt *reportsTable) CasesWithCoordinates(ctx context.Context, projectID *int64) (cases []types.MapCase, err error) {
	defer rt.backend.track("reports.map_cases", time.Now(), &err)

	db, err := rt.backend.handle()
	if err != nil {
		return nil, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(append(qualified("c", caseColumns), primaryCrimeTypeExpr)...)
	sb.From("cases c")
	if projectID != nil {
		sb.Join("project_cases pc", "pc.case_id = c.id")
		sb.Where(sb.Equal("pc.project_id", *projectID))
	}
	sb.Where(sb.IsNotNull("c.crime_scene_lat"), sb.IsNotNull("c.crime_scene_lon"))
	sb.OrderBy("c.date_occurred DESC", "c.id ASC")
	query, args := sb.Build()

	if err := db.SelectContext(ctx, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("listing map cases: %w", err)
	}
	if len(cases) == 0 {
		return cases, nil
	}

	ids := make([]int64, len(cases))
	for i := range cases {
		ids[i] = cases[i].ID
	}
	crimeTypes, err := crimeTypesFor(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	tags, err := tagsFor(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range cases {
		mc := &cases[i]
		mc.CrimeTypes = nonNilStrings(crimeTypes[mc.ID])
		mc.Tags = nonNilStrings(tags[mc.ID])
		mc.MarkerColor = types.MarkerColor(mc.PrimaryType)
		mc.StatusIcon = types.StatusIcon(mc.Status)
	}
	return cases, nil
}

// LinkedPairsWithCoordinates returns links whose two cases both have
// crime-scene coordinates.
func (rt *reportsTable) LinkedPairsWithCoordinates(ctx context.Context, projectID *int64) (links []types.MapLink, err error) {
	defer rt.backend.track("reports.map_links", time.Now(), &err)

	db, err := rt.backend.handle()
	if err != nil {
		return nil, err
	}

	query := `SELECT cl.similarity_note,
       c1.id AS c1_id, c1.title AS c1_title, c1.crime_scene_lat AS c1_lat, c1.crime_scene_lon AS c1_lon,
       c2.id AS c2_id, c2.title AS c2_title, c2.crime_scene_lat AS c2_lat, c2.crime_scene_lon AS c2_lon
FROM case_links cl
JOIN cases c1 ON c1.id = cl.case_id_1
JOIN cases c2 ON c2.id = cl.case_id_2
WHERE c1.crime_scene_lat IS NOT NULL AND c1.crime_scene_lon IS NOT NULL
  AND c2.crime_scene_lat IS NOT NULL AND c2.crime_scene_lon IS NOT NULL`
	var args []any
	if projectID != nil {
		cond, condArgs := bothInProject("cl", *projectID)
		query += "\n  AND " + cond
		args = condArgs
	}
	query += "\nORDER BY cl.id"

	if err := db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, fmt.Errorf("listing map links: %w", err)
	}
	return links, nil
}

// networkCase is the slice of a case a network node needs.
type networkCase struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	Status string `db:"status"`
}

// Network returns the case-link graph in scope. Nodes are ordered by case
// id and edges by link id.
func (rt *reportsTable) Network(ctx context.Context, projectID *int64) (n types.Network, err error) {
	defer rt.backend.track("reports.network", time.Now(), &err)

	n = types.Network{Nodes: []types.NetworkNode{}, Edges: []types.NetworkEdge{}}

	links, err := (&caseLinksTable{backend: rt.backend}).All(ctx, projectID)
	if err != nil {
		return n, err
	}
	if len(links) == 0 {
		return n, nil
	}
	db, err := rt.backend.handle()
	if err != nil {
		return n, err
	}

	var ids []int64
	for _, l := range links {
		ids = append(ids, l.CaseID1, l.CaseID2)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	nodes, err := networkCases(ctx, db, ids)
	if err != nil {
		return n, err
	}
	crimeTypes, err := crimeTypesFor(ctx, db, ids)
	if err != nil {
		return n, err
	}
	for _, c := range nodes {
		n.Nodes = append(n.Nodes, types.NetworkNode{
			CaseID:     c.ID,
			Title:      c.Title,
			Label:      types.NodeLabel(c.ID, c.Title),
			Status:     c.Status,
			CrimeTypes: crimeTypes[c.ID],
		})
	}

	slices.SortFunc(links, func(a, b types.CaseLink) int { return cmp.Compare(a.ID, b.ID) })
	for _, l := range links {
		n.Edges = append(n.Edges, types.NetworkEdge{
			LinkID: l.ID,
			From:   l.CaseID1,
			To:     l.CaseID2,
			Label:  l.SimilarityNote,
		})
	}
	return n, nil
}

func networkCases(ctx context.Context, db *sqlx.DB, ids []int64) ([]networkCase, error) {
	var out []networkCase
	for start := 0; start < len(ids); start += inChunk {
		end := min(start+inChunk, len(ids))

		sb := sqlbuilder.SQLite.NewSelectBuilder()
		sb.Select("id", "title", "status").From("cases")
		sb.Where(sb.In("id", sqlbuilder.Flatten(ids[start:end])...))
		sb.OrderBy("id")
		query, args := sb.Build()

		var rows []networkCase
		if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("loading network cases: %w", err)
		}
		out = append(out, rows...)
	}
	return out, nil
}

// Summary counts the cases in scope by status, and murder cases with their
// recorded victims.
func (rt *reportsTable) Summary(ctx context.Context, projectID *int64) (s types.Summary, err error) {
	defer rt.backend.track("reports.summary", time.Now(), &err)

	s.ByStatus = make(map[string]int, len(types.CaseStatuses))
	for _, status := range types.CaseStatuses {
		s.ByStatus[status] = 0
	}

	db, err := rt.backend.handle()
	if err != nil {
		return s, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(
		"c.status AS status",
		"COUNT(*) AS n",
		"COALESCE(SUM(c.is_murder), 0) AS murders",
		"COALESCE(SUM(CASE WHEN c.is_murder = 1 THEN c.victim_count END), 0) AS victims",
	)
	sb.From("cases c")
	if projectID != nil {
		sb.Join("project_cases pc", "pc.case_id = c.id")
		sb.Where(sb.Equal("pc.project_id", *projectID))
	}
	sb.GroupBy("c.status")
	query, args := sb.Build()

	var rows []struct {
		Status  string `db:"status"`
		Count   int    `db:"n"`
		Murders int    `db:"murders"`
		Victims int64  `db:"victims"`
	}
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return s, fmt.Errorf("summarizing cases: %w", err)
	}
	for _, r := range rows {
		s.Total += r.Count
		s.ByStatus[r.Status] += r.Count
		s.MurderCases += r.Murders
		s.Victims += r.Victims
	}
	return s, nil
}
