package types

import "context"

// Store is the case store. Callers attach to a backend, work through the
// typed tables, and detach when done. Table operations on a detached store
// return ErrStoreDetached.
type Store interface {
	// Attach opens the backend described by config, creating the data
	// directory and bringing the schema up to date.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	Cases() CaseTable
	Suspects() SuspectTable
	SuspectLinks() SuspectLinkTable
	CaseLinks() CaseLinkTable
	Timeline() TimelineTable
	Projects() ProjectTable
	Reports() ReportTable

	// SchemaVersion returns the schema version recorded by the last
	// migration.
	SchemaVersion(ctx context.Context) (int, error)

	// Export writes every table as JSON Lines under dir, plus a manifest.
	Export(ctx context.Context, dir string) (ExportManifest, error)
}
