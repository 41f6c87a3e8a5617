package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

var _ types.CaseTable = (*casesTable)(nil)

type casesTable struct {
	backend *Backend
}

// Add inserts the case and, when given, its crime types and tags, in one
// transaction.
func (ct *casesTable) Add(ctx context.Context, c types.NewCase) (id int64, err error) {
	defer ct.backend.track("cases.add", time.Now(), &err)

	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.InsertInto("cases")
	ib.Cols(
		"title", "crime_type", "date_occurred", "status", "is_murder", "victim_count",
		"mo_description", "victim_profile",
		"crime_scene_address", "crime_scene_lat", "crime_scene_lon",
		"body_found_address", "body_found_lat", "body_found_lon",
		"created_at",
	)
	ib.Values(
		c.Title, migratedCrimeType, c.DateOccurred, c.Status, c.IsMurder, c.VictimCount,
		c.MODescription, c.VictimProfile,
		c.CrimeSceneAddress, c.CrimeSceneLat, c.CrimeSceneLon,
		c.BodyFoundAddress, c.BodyFoundLat, c.BodyFoundLon,
		types.Now(),
	)
	query, args := ib.Build()

	err = ct.backend.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("inserting case: %w", classify(err, types.CasesTable, nil))
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading case id: %w", err)
		}
		if len(c.CrimeTypes) > 0 {
			if err := replaceCrimeTypes(ctx, tx, id, c.CrimeTypes); err != nil {
				return err
			}
		}
		if len(c.Tags) > 0 {
			if err := replaceTags(ctx, tx, id, c.Tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	ct.backend.logger.Debug("case added", zap.Int64("case_id", id))
	return id, nil
}

// Get returns the case with its crime types and tags, or nil when absent.
func (ct *casesTable) Get(ctx context.Context, id int64) (c *types.Case, err error) {
	defer ct.backend.track("cases.get", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return nil, err
	}

	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(caseColumns...).From("cases").Where(sb.Equal("id", id))
	query, args := sb.Build()

	var row types.Case
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting case %d: %w", id, err)
	}

	cases := []types.Case{row}
	if err := hydrateCases(ctx, db, cases); err != nil {
		return nil, err
	}
	return &cases[0], nil
}

// List returns cases newest first. A non-nil projectID keeps only members of
// that project.
func (ct *casesTable) List(ctx context.Context, projectID *int64) (cases []types.Case, err error) {
	defer ct.backend.track("cases.list", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return nil, err
	}
	return listCases(ctx, db, projectID)
}

// listCases is shared by case listing and project membership listing.
func listCases(ctx context.Context, db *sqlx.DB, projectID *int64) ([]types.Case, error) {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(qualified("c", caseColumns)...).From("cases c")
	if projectID != nil {
		sb.Join("project_cases pc", "pc.case_id = c.id")
		sb.Where(sb.Equal("pc.project_id", *projectID))
	}
	sb.OrderBy("c.date_occurred DESC", "c.id ASC")
	query, args := sb.Build()

	var cases []types.Case
	if err := db.SelectContext(ctx, &cases, query, args...); err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	if err := hydrateCases(ctx, db, cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// hydrateCases fills CrimeTypes and Tags in place.
func hydrateCases(ctx context.Context, q sqlx.QueryerContext, cases []types.Case) error {
	if len(cases) == 0 {
		return nil
	}
	ids := make([]int64, len(cases))
	for i := range cases {
		ids[i] = cases[i].ID
	}
	crimeTypes, err := crimeTypesFor(ctx, q, ids)
	if err != nil {
		return err
	}
	tags, err := tagsFor(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range cases {
		cases[i].CrimeTypes = nonNilStrings(crimeTypes[cases[i].ID])
		cases[i].Tags = nonNilStrings(tags[cases[i].ID])
	}
	return nil
}

// Update writes the fields set in patch. Changing any crime-scene field also
// clears the legacy location so the migration backfill does not restore it.
func (ct *casesTable) Update(ctx context.Context, id int64, patch types.CasePatch) (err error) {
	defer ct.backend.track("cases.update", time.Now(), &err)

	if patch.Empty() {
		return nil
	}
	db, err := ct.backend.handle()
	if err != nil {
		return err
	}

	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update("cases")

	var assigns []string
	set := func(col string, v any) { assigns = append(assigns, ub.Assign(col, v)) }
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.DateOccurred != nil {
		set("date_occurred", *patch.DateOccurred)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.IsMurder != nil {
		set("is_murder", *patch.IsMurder)
	}
	if patch.VictimCount != nil {
		set("victim_count", *patch.VictimCount)
	}
	if patch.MODescription != nil {
		set("mo_description", *patch.MODescription)
	}
	if patch.VictimProfile != nil {
		set("victim_profile", *patch.VictimProfile)
	}
	if patch.CrimeSceneAddress != nil {
		set("crime_scene_address", *patch.CrimeSceneAddress)
	}
	if patch.CrimeSceneLat != nil {
		set("crime_scene_lat", *patch.CrimeSceneLat)
	}
	if patch.CrimeSceneLon != nil {
		set("crime_scene_lon", *patch.CrimeSceneLon)
	}
	if patch.BodyFoundAddress != nil {
		set("body_found_address", *patch.BodyFoundAddress)
	}
	if patch.BodyFoundLat != nil {
		set("body_found_lat", *patch.BodyFoundLat)
	}
	if patch.BodyFoundLon != nil {
		set("body_found_lon", *patch.BodyFoundLon)
	}
	if patch.CrimeSceneAddress != nil || patch.CrimeSceneLat != nil || patch.CrimeSceneLon != nil {
		assigns = append(assigns, "address = NULL", "latitude = NULL", "longitude = NULL")
	}

	ub.Set(assigns...)
	ub.Where(ub.Equal("id", id))
	query, args := ub.Build()

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("updating case %d: %w", id, classify(err, types.CasesTable, nil))
	}
	ct.backend.logger.Debug("case updated", zap.Int64("case_id", id), zap.Int("fields", len(assigns)))
	return nil
}

// Delete removes the case. Foreign-key cascades remove its crime types,
// tags, suspect links, case links, timeline events, and memberships in the
// same statement.
func (ct *casesTable) Delete(ctx context.Context, id int64) (err error) {
	defer ct.backend.track("cases.delete", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM cases WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting case %d: %w", id, err)
	}
	ct.backend.logger.Debug("case deleted", zap.Int64("case_id", id))
	return nil
}

// SetCrimeTypes replaces the case's crime types. The position in crimeTypes
// is the stored order; a repeated value keeps its first position.
func (ct *casesTable) SetCrimeTypes(ctx context.Context, caseID int64, crimeTypes []string) (err error) {
	defer ct.backend.track("case_crime_types.set", time.Now(), &err)

	return ct.backend.withTx(ctx, func(tx *sqlx.Tx) error {
		return replaceCrimeTypes(ctx, tx, caseID, crimeTypes)
	})
}

func replaceCrimeTypes(ctx context.Context, tx *sqlx.Tx, caseID int64, crimeTypes []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM case_crime_types WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("clearing crime types: %w", err)
	}
	for i, crimeType := range crimeTypes {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertIgnoreInto("case_crime_types")
		ib.Cols("case_id", "crime_type", "sort_order")
		ib.Values(caseID, crimeType, i)
		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting crime type %q: %w", crimeType, classify(err, types.CaseCrimeTypesTable, nil))
		}
	}
	return nil
}

// CrimeTypes returns the case's crime types, primary first.
func (ct *casesTable) CrimeTypes(ctx context.Context, caseID int64) (crimeTypes []string, err error) {
	defer ct.backend.track("case_crime_types.list", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return nil, err
	}
	crimeTypes = []string{}
	err = db.SelectContext(ctx, &crimeTypes,
		"SELECT crime_type FROM case_crime_types WHERE case_id = ? ORDER BY sort_order, id", caseID)
	if err != nil {
		return nil, fmt.Errorf("listing crime types for case %d: %w", caseID, err)
	}
	return crimeTypes, nil
}

// PrimaryCrimeType returns the lowest-ordered crime type of the case.
func (ct *casesTable) PrimaryCrimeType(ctx context.Context, caseID int64) (crimeType string, ok bool, err error) {
	defer ct.backend.track("case_crime_types.primary", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return "", false, err
	}
	err = db.GetContext(ctx, &crimeType,
		"SELECT crime_type FROM case_crime_types WHERE case_id = ? ORDER BY sort_order, id LIMIT 1", caseID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting primary crime type for case %d: %w", caseID, err)
	}
	return crimeType, true, nil
}

// SetTags replaces the case's tags.
func (ct *casesTable) SetTags(ctx context.Context, caseID int64, tags []string) (err error) {
	defer ct.backend.track("case_tags.set", time.Now(), &err)

	return ct.backend.withTx(ctx, func(tx *sqlx.Tx) error {
		return replaceTags(ctx, tx, caseID, tags)
	})
}

func replaceTags(ctx context.Context, tx *sqlx.Tx, caseID int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM case_tags WHERE case_id = ?", caseID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	for _, tag := range tags {
		ib := sqlbuilder.SQLite.NewInsertBuilder()
		ib.InsertIgnoreInto("case_tags")
		ib.Cols("case_id", "tag")
		ib.Values(caseID, tag)
		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, classify(err, types.CaseTagsTable, nil))
		}
	}
	return nil
}

// Tags returns the case's tags in insertion order.
func (ct *casesTable) Tags(ctx context.Context, caseID int64) (tags []string, err error) {
	defer ct.backend.track("case_tags.list", time.Now(), &err)

	db, err := ct.backend.handle()
	if err != nil {
		return nil, err
	}
	tags = []string{}
	if err := db.SelectContext(ctx, &tags, "SELECT tag FROM case_tags WHERE case_id = ? ORDER BY id", caseID); err != nil {
		return nil, fmt.Errorf("listing tags for case %d: %w", caseID, err)
	}
	return tags, nil
}
