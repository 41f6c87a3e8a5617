package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migratedCrimeType marks cases whose legacy crime_type column has been
// moved into case_crime_types.
const migratedCrimeType = "__migrated__"

// Schema DDL. Every statement is safe to run against an existing store.
// The cases table keeps the legacy columns (crime_type, address, latitude,
// longitude) so that older stores and new ones share one shape.
const (
	createCases = `CREATE TABLE IF NOT EXISTS cases (
    id                  INTEGER PRIMARY KEY,
    title               TEXT NOT NULL,
    crime_type          TEXT NOT NULL DEFAULT '__migrated__',
    date_occurred       TEXT NOT NULL,
    address             TEXT,
    latitude            REAL,
    longitude           REAL,
    crime_scene_address TEXT,
    crime_scene_lat     REAL,
    crime_scene_lon     REAL,
    body_found_address  TEXT,
    body_found_lat      REAL,
    body_found_lon      REAL,
    is_murder           INTEGER NOT NULL DEFAULT 0,
    victim_count        INTEGER,
    mo_description      TEXT,
    victim_profile      TEXT,
    status              TEXT NOT NULL DEFAULT 'Active',
    created_at          TEXT NOT NULL DEFAULT (datetime('now'))
);`

	createCaseCrimeTypes = `CREATE TABLE IF NOT EXISTS case_crime_types (
    id         INTEGER PRIMARY KEY,
    case_id    INTEGER NOT NULL,
    crime_type TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
    UNIQUE (case_id, crime_type)
);`

	createCaseTags = `CREATE TABLE IF NOT EXISTS case_tags (
    id      INTEGER PRIMARY KEY,
    case_id INTEGER NOT NULL,
    tag     TEXT NOT NULL,
    FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE,
    UNIQUE (case_id, tag)
);`

	createSuspects = `CREATE TABLE IF NOT EXISTS suspects (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    description   TEXT,
    known_aliases TEXT,
    created_at    TEXT NOT NULL DEFAULT (datetime('now'))
);`

	createSuspectCrimeHistory = `CREATE TABLE IF NOT EXISTS suspect_crime_history (
    id                INTEGER PRIMARY KEY,
    suspect_id        INTEGER NOT NULL,
    crime_type        TEXT NOT NULL,
    date_of_crime     TEXT,
    conviction_status TEXT NOT NULL,
    notes             TEXT,
    created_at        TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (suspect_id) REFERENCES suspects(id) ON DELETE CASCADE
);`

	createSuspectCaseLinks = `CREATE TABLE IF NOT EXISTS suspect_case_links (
    id              INTEGER PRIMARY KEY,
    suspect_id      INTEGER NOT NULL,
    case_id         INTEGER NOT NULL,
    connection_type TEXT NOT NULL,
    notes           TEXT,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (suspect_id) REFERENCES suspects(id) ON DELETE CASCADE,
    FOREIGN KEY (case_id)    REFERENCES cases(id)    ON DELETE CASCADE,
    UNIQUE (suspect_id, case_id, connection_type)
);`

	// Pair uniqueness is enforced by ux_case_links_pair, created during
	// migration once legacy duplicates are gone.
	createCaseLinks = "CREATE TABLE IF NOT EXISTS case_links " + caseLinksColumns

	caseLinksColumns = `(
    id              INTEGER PRIMARY KEY,
    case_id_1       INTEGER NOT NULL,
    case_id_2       INTEGER NOT NULL,
    similarity_note TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (case_id_1) REFERENCES cases(id) ON DELETE CASCADE,
    FOREIGN KEY (case_id_2) REFERENCES cases(id) ON DELETE CASCADE,
    CHECK (case_id_1 < case_id_2)
);`

	createTimelineEvents = `CREATE TABLE IF NOT EXISTS timeline_events (
    id              INTEGER PRIMARY KEY,
    case_id         INTEGER NOT NULL,
    event_timestamp TEXT NOT NULL,
    title           TEXT NOT NULL,
    description     TEXT,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (case_id) REFERENCES cases(id) ON DELETE CASCADE
);`

	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    id          INTEGER PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);`

	createProjectCases = `CREATE TABLE IF NOT EXISTS project_cases (
    id         INTEGER PRIMARY KEY,
    project_id INTEGER NOT NULL,
    case_id    INTEGER NOT NULL,
    added_at   TEXT NOT NULL DEFAULT (datetime('now')),
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
    FOREIGN KEY (case_id)    REFERENCES cases(id)    ON DELETE CASCADE,
    UNIQUE (project_id, case_id)
);`
)

// primaryTables exist in every historical layout.
var primaryTables = []string{
	createCases,
	createSuspects,
	createSuspectCaseLinks,
	createCaseLinks,
	createTimelineEvents,
}

// associationTables were added after the first release and are also
// created by the migration.
var associationTables = []string{
	createCaseCrimeTypes,
	createCaseTags,
	createSuspectCrimeHistory,
	createProjects,
	createProjectCases,
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_cases_date ON cases(date_occurred)",
	"CREATE INDEX IF NOT EXISTS idx_case_crime_types_case ON case_crime_types(case_id, sort_order)",
	"CREATE INDEX IF NOT EXISTS idx_case_tags_case ON case_tags(case_id)",
	"CREATE INDEX IF NOT EXISTS idx_history_suspect ON suspect_crime_history(suspect_id)",
	"CREATE INDEX IF NOT EXISTS idx_suspect_links_case ON suspect_case_links(case_id)",
	"CREATE INDEX IF NOT EXISTS idx_case_links_2 ON case_links(case_id_2)",
	"CREATE INDEX IF NOT EXISTS idx_timeline_case ON timeline_events(case_id, event_timestamp)",
	"CREATE INDEX IF NOT EXISTS idx_project_cases_case ON project_cases(case_id)",
}

// initialize creates every table and index that does not exist yet.
func initialize(ctx context.Context, db *sqlx.DB) error {
	stmts := append(append(append([]string{}, primaryTables...), associationTables...), indexes...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %.40q: %w", stmt, err)
		}
	}
	return nil
}
