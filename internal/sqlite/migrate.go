package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// CurrentSchemaVersion is written to PRAGMA user_version after a successful
// migration. Every step still runs on each attach; the version is
// informational.
const CurrentSchemaVersion = 3

// caseColumnAdds are the cases columns that older stores may lack, with the
// column definition used to add them.
var caseColumnAdds = []struct {
	name string
	def  string
}{
	{"crime_type", "TEXT NOT NULL DEFAULT '__migrated__'"},
	{"address", "TEXT"},
	{"latitude", "REAL"},
	{"longitude", "REAL"},
	{"crime_scene_address", "TEXT"},
	{"crime_scene_lat", "REAL"},
	{"crime_scene_lon", "REAL"},
	{"body_found_address", "TEXT"},
	{"body_found_lat", "REAL"},
	{"body_found_lon", "REAL"},
	{"is_murder", "INTEGER NOT NULL DEFAULT 0"},
	{"victim_count", "INTEGER"},
}

// migrationStep is one idempotent schema or data change. run reports the
// number of rows or objects it changed.
type migrationStep struct {
	name string
	run  func(ctx context.Context, tx *sqlx.Tx) (int64, error)
}

var migrationSteps = []migrationStep{
	{"add case columns", addCaseColumns},
	{"create association tables", createAssociationTables},
	{"backfill crime scene", backfillCrimeScene},
	{"move legacy crime type", moveLegacyCrimeType},
	{"normalize case status", normalizeStatus},
	{"rebuild case links", rebuildCaseLinks},
	{"enforce case link uniqueness", enforceCaseLinkPairs},
	{"enforce suspect link uniqueness", enforceSuspectLinkTriples},
}

// migrate brings any historical store layout to the current one. Each step
// runs in its own transaction and is a no-op once applied, so running
// migrate twice leaves schema and row counts unchanged.
func migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	for _, step := range migrationSteps {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning %s: %w", step.name, err)
		}
		n, err := step.run(ctx, tx)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("%s: %w", step.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing %s: %w", step.name, err)
		}
		logger.Debug("migration step", zap.String("step", step.name), zap.Int64("changed", n))
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", CurrentSchemaVersion)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// tableColumn is one row of PRAGMA table_info.
type tableColumn struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// columnNames returns the set of column names of table.
func columnNames(ctx context.Context, q sqlx.QueryerContext, table string) (map[string]bool, error) {
	var cols []tableColumn
	if err := sqlx.SelectContext(ctx, q, &cols, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	names := make(map[string]bool, len(cols))
	for _, c := range cols {
		names[c.Name] = true
	}
	return names, nil
}

// addCaseColumns adds the columns missing from cases. A present column is
// skipped; any failure to add an absent one is returned.
func addCaseColumns(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	have, err := columnNames(ctx, tx, "cases")
	if err != nil {
		return 0, err
	}
	var added int64
	for _, col := range caseColumnAdds {
		if have[col.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE cases ADD COLUMN %s %s", col.name, col.def)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return added, fmt.Errorf("adding column %s: %w", col.name, err)
		}
		added++
	}
	return added, nil
}

func createAssociationTables(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	for _, stmt := range associationTables {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// backfillCrimeScene copies the legacy single location into the crime-scene
// fields of cases that have no crime-scene latitude yet.
func backfillCrimeScene(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE cases
SET crime_scene_address = address,
    crime_scene_lat     = latitude,
    crime_scene_lon     = longitude
WHERE crime_scene_lat IS NULL
  AND latitude IS NOT NULL`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// moveLegacyCrimeType turns each unmigrated legacy crime_type into the
// case's first crime-type association, then marks the row migrated. Blank
// legacy values are marked without creating an association.
func moveLegacyCrimeType(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO case_crime_types (case_id, crime_type, sort_order)
SELECT id, crime_type, 0 FROM cases
WHERE crime_type != ? AND TRIM(crime_type) != ''`, migratedCrimeType)
	if err != nil {
		return 0, fmt.Errorf("copying crime types: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE cases SET crime_type = ? WHERE crime_type != ?", migratedCrimeType, migratedCrimeType); err != nil {
		return moved, fmt.Errorf("marking cases migrated: %w", err)
	}
	return moved, nil
}

// normalizeStatus maps retired status values onto the current vocabulary.
func normalizeStatus(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var total int64
	for _, stmt := range []string{
		"UPDATE cases SET status = 'Active' WHERE status IN ('Open', 'Linked')",
		"UPDATE cases SET status = 'Solved' WHERE status = 'Closed'",
	} {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// rebuildCaseLinks recreates a case_links table that lacks the ordered-pair
// check. Rows are stored as (min, max); self-links and rows whose cases are
// gone are dropped, and of several rows for the same pair the earliest is
// kept. It reports the number of rows dropped.
func rebuildCaseLinks(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var ddl string
	if err := tx.GetContext(ctx, &ddl,
		"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'case_links'"); err != nil {
		return 0, fmt.Errorf("reading case_links definition: %w", err)
	}
	if strings.Contains(strings.ToUpper(ddl), "CHECK") {
		return 0, nil
	}

	var before int64
	if err := tx.GetContext(ctx, &before, "SELECT COUNT(*) FROM case_links"); err != nil {
		return 0, fmt.Errorf("counting case links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE case_links_rebuilt "+caseLinksColumns); err != nil {
		return 0, fmt.Errorf("creating rebuilt case_links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO case_links_rebuilt (id, case_id_1, case_id_2, similarity_note, created_at)
SELECT id, MIN(case_id_1, case_id_2), MAX(case_id_1, case_id_2), similarity_note, created_at
FROM case_links
WHERE id IN (
    SELECT MIN(id) FROM case_links
    WHERE case_id_1 != case_id_2
      AND case_id_1 IN (SELECT id FROM cases)
      AND case_id_2 IN (SELECT id FROM cases)
    GROUP BY MIN(case_id_1, case_id_2), MAX(case_id_1, case_id_2)
)`)
	if err != nil {
		return 0, fmt.Errorf("copying case links: %w", err)
	}
	kept, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	for _, stmt := range []string{
		"DROP TABLE case_links",
		"ALTER TABLE case_links_rebuilt RENAME TO case_links",
		"CREATE INDEX IF NOT EXISTS idx_case_links_2 ON case_links(case_id_2)",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("replacing case_links: %w", err)
		}
	}
	return before - kept, nil
}

// enforceCaseLinkPairs removes duplicate pairs left by older stores, keeping
// the earliest link, and adds the unique pair index.
func enforceCaseLinkPairs(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM case_links
WHERE id NOT IN (SELECT MIN(id) FROM case_links GROUP BY case_id_1, case_id_2)`)
	if err != nil {
		return 0, fmt.Errorf("removing duplicate links: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS ux_case_links_pair ON case_links(case_id_1, case_id_2)"); err != nil {
		return removed, fmt.Errorf("creating pair index: %w", err)
	}
	return removed, nil
}

// enforceSuspectLinkTriples removes repeated suspect, case, and connection
// type links left by older stores, keeping the earliest, and adds the unique
// triple index.
func enforceSuspectLinkTriples(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM suspect_case_links
WHERE id NOT IN (SELECT MIN(id) FROM suspect_case_links GROUP BY suspect_id, case_id, connection_type)`)
	if err != nil {
		return 0, fmt.Errorf("removing duplicate suspect links: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_suspect_case_links_triple ON suspect_case_links(suspect_id, case_id, connection_type)"); err != nil {
		return removed, fmt.Errorf("creating triple index: %w", err)
	}
	return removed, nil
}
