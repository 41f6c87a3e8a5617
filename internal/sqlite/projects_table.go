package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.ProjectTable = (*projectsTable)(nil)

type projectsTable struct {
	backend *Backend
}

var projectReasons = reasons{types.ConstraintUnique: types.ErrDuplicateName}

const projectColumns = "id, name, description, created_at"

func (pt *projectsTable) Add(ctx context.Context, p types.NewProject) (id int64, err error) {
	defer pt.backend.track("projects.add", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO projects (name, description, created_at) VALUES (?, ?, ?)",
		p.Name, p.Description, types.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting project: %w", classify(err, types.ProjectsTable, projectReasons))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading project id: %w", err)
	}
	pt.backend.logger.Debug("project added", zap.Int64("project_id", id), zap.String("name", p.Name))
	return id, nil
}

// Get returns the project, or nil when absent.
func (pt *projectsTable) Get(ctx context.Context, id int64) (p *types.Project, err error) {
	defer pt.backend.track("projects.get", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return nil, err
	}
	var row types.Project
	if err := db.GetContext(ctx, &row, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting project %d: %w", id, err)
	}
	return &row, nil
}

func (pt *projectsTable) List(ctx context.Context) (projects []types.Project, err error) {
	defer pt.backend.track("projects.list", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return nil, err
	}
	if err := db.SelectContext(ctx, &projects, "SELECT "+projectColumns+" FROM projects ORDER BY name, id"); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (pt *projectsTable) Update(ctx context.Context, id int64, patch types.ProjectPatch) (err error) {
	defer pt.backend.track("projects.update", time.Now(), &err)

	if patch.Empty() {
		return nil
	}
	db, err := pt.backend.handle()
	if err != nil {
		return err
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("projects")
	var assigns []string
	if patch.Name != nil {
		assigns = append(assigns, ub.Assign("name", *patch.Name))
	}
	if patch.Description != nil {
		assigns = append(assigns, ub.Assign("description", *patch.Description))
	}
	ub.Set(assigns...)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating project %d: %w", id, classify(err, types.ProjectsTable, projectReasons))
	}
	return nil
}

// Delete removes the project and its memberships. Member cases are kept.
func (pt *projectsTable) Delete(ctx context.Context, id int64) (err error) {
	defer pt.backend.track("projects.delete", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	pt.backend.logger.Debug("project deleted", zap.Int64("project_id", id))
	return nil
}

// Assign adds the case to the project. Assigning a member again changes
// nothing, including its added_at.
func (pt *projectsTable) Assign(ctx context.Context, projectID, caseID int64) (err error) {
	defer pt.backend.track("project_cases.assign", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return err
	}
	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertIgnoreInto("project_cases")
	ib.Cols("project_id", "case_id", "added_at")
	ib.Values(projectID, caseID, types.Now())
	query, args := ib.Build()

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("assigning case %d to project %d: %w", caseID, projectID, classify(err, types.ProjectCasesTable, nil))
	}
	pt.backend.logger.Debug("case assigned", zap.Int64("project_id", projectID), zap.Int64("case_id", caseID))
	return nil
}

func (pt *projectsTable) Unassign(ctx context.Context, projectID, caseID int64) (err error) {
	defer pt.backend.track("project_cases.unassign", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM project_cases WHERE project_id = ? AND case_id = ?", projectID, caseID); err != nil {
		return fmt.Errorf("unassigning case %d from project %d: %w", caseID, projectID, err)
	}
	return nil
}

// Cases lists the project's cases in case-list order.
func (pt *projectsTable) Cases(ctx context.Context, projectID int64) (cases []types.Case, err error) {
	defer pt.backend.track("project_cases.cases", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return nil, err
	}
	return listCases(ctx, db, &projectID)
}

// ProjectIDs returns the ids of projects the case belongs to, ascending.
func (pt *projectsTable) ProjectIDs(ctx context.Context, caseID int64) (ids []int64, err error) {
	defer pt.backend.track("project_cases.projects", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return nil, err
	}
	ids = []int64{}
	if err := db.SelectContext(ctx, &ids, "SELECT project_id FROM project_cases WHERE case_id = ? ORDER BY project_id", caseID); err != nil {
		return nil, fmt.Errorf("listing projects for case %d: %w", caseID, err)
	}
	return ids, nil
}

// CaseCounts returns the number of member cases per project. Projects with
// no members are present with a zero count.
func (pt *projectsTable) CaseCounts(ctx context.Context) (counts map[int64]int, err error) {
	defer pt.backend.track("project_cases.counts", time.Now(), &err)

	db, err := pt.backend.handle()
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ProjectID int64 `db:"project_id"`
		Count     int   `db:"n"`
	}
	err = db.SelectContext(ctx, &rows, `SELECT p.id AS project_id, COUNT(pc.case_id) AS n
FROM projects p
LEFT JOIN project_cases pc ON pc.project_id = p.id
GROUP BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("counting project cases: %w", err)
	}
	counts = make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.ProjectID] = r.Count
	}
	return counts, nil
}
