package sqlite

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.CaseLinkTable = (*caseLinksTable)(nil)

type caseLinksTable struct {
	backend *Backend
}

// caseLinkReasons maps the pair index and the ordering check to their
// domain errors. A self link is the only way to break case_id_1 < case_id_2
// once the pair is canonicalized.
var caseLinkReasons = reasons{
	types.ConstraintUnique: types.ErrAlreadyLinked,
	types.ConstraintCheck:  types.ErrSelfLink,
}

// caseLinkSelect selects link columns with both case titles.
const caseLinkSelect = `SELECT cl.id, cl.case_id_1, cl.case_id_2, cl.similarity_note, cl.created_at,
       c1.title AS case1_title, c2.title AS case2_title
FROM case_links cl
JOIN cases c1 ON c1.id = cl.case_id_1
JOIN cases c2 ON c2.id = cl.case_id_2`

// Link stores an undirected link between a and b as (min, max).
func (lt *caseLinksTable) Link(ctx context.Context, a, b int64, similarityNote string) (id int64, err error) {
	defer lt.backend.track("case_links.add", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return 0, err
	}
	lo, hi := types.CanonicalPair(a, b)
	res, err := db.ExecContext(ctx,
		"INSERT INTO case_links (case_id_1, case_id_2, similarity_note, created_at) VALUES (?, ?, ?, ?)",
		lo, hi, similarityNote, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("persisting case link: %w", classify(err, types.CaseLinksTable, caseLinkReasons))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading case link id: %w", err)
	}
	lt.backend.logger.Debug("cases linked", zap.Int64("case_id_1", lo), zap.Int64("case_id_2", hi))
	return id, nil
}

// ForCase returns links touching the case on either side, newest first.
func (lt *caseLinksTable) ForCase(ctx context.Context, caseID int64) (links []types.CaseLink, err error) {
	defer lt.backend.track("case_links.for_case", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return nil, err
	}
	err = db.SelectContext(ctx, &links, caseLinkSelect+`
WHERE cl.case_id_1 = ? OR cl.case_id_2 = ?
ORDER BY cl.created_at DESC, cl.id DESC`, caseID, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing links for case %d: %w", caseID, err)
	}
	return links, nil
}

// All returns every link, newest first. With a projectID both endpoints must
// belong to the project.
func (lt *caseLinksTable) All(ctx context.Context, projectID *int64) (links []types.CaseLink, err error) {
	defer lt.backend.track("case_links.list", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return nil, err
	}

	query := caseLinkSelect
	var args []any
	if projectID != nil {
		var cond string
		cond, args = bothInProject("cl", *projectID)
		query += "\nWHERE " + cond
	}
	query += "\nORDER BY cl.created_at DESC, cl.id DESC"

	if err := db.SelectContext(ctx, &links, query, args...); err != nil {
		return nil, fmt.Errorf("listing case links: %w", err)
	}
	return links, nil
}

// bothInProject builds the condition that both endpoints of the link aliased
// as alias are members of the project.
func bothInProject(alias string, projectID int64) (string, []any) {
	cond := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM project_cases WHERE project_id = ? AND case_id = %[1]s.case_id_1)"+
			" AND EXISTS (SELECT 1 FROM project_cases WHERE project_id = ? AND case_id = %[1]s.case_id_2)",
		alias,
	)
	return cond, []any{projectID, projectID}
}

func (lt *caseLinksTable) Delete(ctx context.Context, id int64) (err error) {
	defer lt.backend.track("case_links.delete", time.Now(), &err)

	db, err := lt.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM case_links WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting case link %d: %w", id, err)
	}
	return nil
}
