package types

import "database/sql"

// Project is a named group of cases.
type Project struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   Timestamp `db:"created_at" json:"created_at"`
}

// NewProject is the input for creating a project.
type NewProject struct {
	Name        string `validate:"notblank"`
	Description *string
}

// Validate requires a non-blank name.
func (n NewProject) Validate() error {
	return validateStruct(n)
}

// ProjectPatch lists the project fields to change.
type ProjectPatch struct {
	Name        *string
	Description *sql.Null[string]
}

// Empty reports whether the patch changes nothing.
func (p ProjectPatch) Empty() bool {
	return p == ProjectPatch{}
}

// Validate rejects a blank replacement name.
func (p ProjectPatch) Validate() error {
	if p.Name != nil {
		return validateVar("Name", *p.Name, "notblank")
	}
	return nil
}
