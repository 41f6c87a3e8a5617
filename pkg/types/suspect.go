package types

import "database/sql"

// Suspect is a person of interest.
type Suspect struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	KnownAliases *string   `db:"known_aliases" json:"known_aliases,omitempty"`
	CreatedAt    Timestamp `db:"created_at" json:"created_at"`
}

// NewSuspect is the input for creating a suspect.
type NewSuspect struct {
	Name         string `validate:"notblank"`
	Description  *string
	KnownAliases *string
}

// Validate requires a non-blank name.
func (n NewSuspect) Validate() error {
	return validateStruct(n)
}

// SuspectPatch lists the suspect fields to change. Nil fields are left
// alone.
type SuspectPatch struct {
	Name         *string
	Description  *sql.Null[string]
	KnownAliases *sql.Null[string]
}

// Empty reports whether the patch changes nothing.
func (p SuspectPatch) Empty() bool {
	return p == SuspectPatch{}
}

// Validate rejects a blank replacement name.
func (p SuspectPatch) Validate() error {
	if p.Name != nil {
		return validateVar("Name", *p.Name, "notblank")
	}
	return nil
}

// HistoryEntry is one record in a suspect's criminal history.
type HistoryEntry struct {
	ID               int64     `db:"id" json:"id"`
	SuspectID        int64     `db:"suspect_id" json:"suspect_id"`
	CrimeType        string    `db:"crime_type" json:"crime_type"`
	DateOfCrime      *Date     `db:"date_of_crime" json:"date_of_crime,omitempty"`
	ConvictionStatus string    `db:"conviction_status" json:"conviction_status"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt        Timestamp `db:"created_at" json:"created_at"`
}

// NewHistoryEntry is the input for a criminal history record.
type NewHistoryEntry struct {
	SuspectID        int64  `validate:"gt=0"`
	CrimeType        string `validate:"crimetype"`
	DateOfCrime      *Date  `validate:"omitempty,casedate"`
	ConvictionStatus string `validate:"conviction"`
	Notes            *string
}

// Validate checks the crime type, conviction status, and optional date.
func (n NewHistoryEntry) Validate() error {
	return validateStruct(n)
}
