package types

import "context"

// CaseTable manages cases and their crime-type and tag associations.
type CaseTable interface {
	// Add inserts a case and returns its id. Crime types and tags in the
	// input are written in the same transaction.
	Add(ctx context.Context, c NewCase) (int64, error)

	// Get returns the case with its crime types and tags, or nil when no
	// case has that id.
	Get(ctx context.Context, id int64) (*Case, error)

	// List returns cases newest first by occurrence date, ties broken by
	// ascending id. A non-nil projectID limits the result to its members.
	List(ctx context.Context, projectID *int64) ([]Case, error)

	// Update writes only the fields set in patch. An empty patch is a no-op.
	Update(ctx context.Context, id int64, patch CasePatch) error

	// Delete removes the case and everything that belongs to it.
	Delete(ctx context.Context, id int64) error

	// SetCrimeTypes replaces the case's crime types. Order is significant:
	// the first entry becomes the primary crime type.
	SetCrimeTypes(ctx context.Context, caseID int64, crimeTypes []string) error
	CrimeTypes(ctx context.Context, caseID int64) ([]string, error)

	// PrimaryCrimeType returns the lowest-ordered crime type. ok is false
	// when the case has none.
	PrimaryCrimeType(ctx context.Context, caseID int64) (crimeType string, ok bool, err error)

	// SetTags replaces the case's tags. Duplicates collapse to one.
	SetTags(ctx context.Context, caseID int64, tags []string) error
	Tags(ctx context.Context, caseID int64) ([]string, error)
}

// SuspectTable manages suspects and their criminal history.
type SuspectTable interface {
	Add(ctx context.Context, s NewSuspect) (int64, error)
	Get(ctx context.Context, id int64) (*Suspect, error)
	List(ctx context.Context) ([]Suspect, error)
	Update(ctx context.Context, id int64, patch SuspectPatch) error
	Delete(ctx context.Context, id int64) error

	AddHistory(ctx context.Context, e NewHistoryEntry) (int64, error)

	// History returns entries with the most recent dated crime first and
	// undated entries last.
	History(ctx context.Context, suspectID int64) ([]HistoryEntry, error)
	DeleteHistory(ctx context.Context, id int64) error
}

// SuspectLinkTable manages suspect-to-case links.
type SuspectLinkTable interface {
	// Link fails with a *ConstraintError matching ErrAlreadyLinked when the
	// same suspect, case, and connection type are already linked.
	Link(ctx context.Context, l NewSuspectLink) (int64, error)
	ForCase(ctx context.Context, caseID int64) ([]SuspectLink, error)
	ForSuspect(ctx context.Context, suspectID int64) ([]SuspectLink, error)
	Delete(ctx context.Context, id int64) error
}

// CaseLinkTable manages undirected case-to-case links.
type CaseLinkTable interface {
	// Link stores the pair in canonical order. Linking a case to itself
	// matches ErrSelfLink; linking an existing pair in either order matches
	// ErrAlreadyLinked.
	Link(ctx context.Context, a, b int64, similarityNote string) (int64, error)
	ForCase(ctx context.Context, caseID int64) ([]CaseLink, error)

	// All returns every link, or with a projectID only links whose two
	// endpoints are both in the project.
	All(ctx context.Context, projectID *int64) ([]CaseLink, error)
	Delete(ctx context.Context, id int64) error
}

// TimelineTable manages case timeline events.
type TimelineTable interface {
	Add(ctx context.Context, e NewEvent) (int64, error)
	List(ctx context.Context, caseID int64) ([]TimelineEvent, error)
	ListAll(ctx context.Context, projectID *int64) ([]TimelineEvent, error)
	Delete(ctx context.Context, id int64) error
}

// ProjectTable manages projects and their case membership.
type ProjectTable interface {
	// Add fails with a *ConstraintError matching ErrDuplicateName when the
	// name is taken.
	Add(ctx context.Context, p NewProject) (int64, error)
	Get(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, id int64, patch ProjectPatch) error

	// Delete removes the project and its memberships. Cases are kept.
	Delete(ctx context.Context, id int64) error

	// Assign is idempotent.
	Assign(ctx context.Context, projectID, caseID int64) error
	Unassign(ctx context.Context, projectID, caseID int64) error
	Cases(ctx context.Context, projectID int64) ([]Case, error)
	ProjectIDs(ctx context.Context, caseID int64) ([]int64, error)
	CaseCounts(ctx context.Context) (map[int64]int, error)
}

// ReportTable serves the composite read models used by map, network, and
// dashboard views.
type ReportTable interface {
	CasesWithCoordinates(ctx context.Context, projectID *int64) ([]MapCase, error)
	LinkedPairsWithCoordinates(ctx context.Context, projectID *int64) ([]MapLink, error)
	Network(ctx context.Context, projectID *int64) (Network, error)
	Summary(ctx context.Context, projectID *int64) (Summary, error)
}
