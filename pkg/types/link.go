package types

// SuspectLink ties a suspect to a case through one kind of evidence. The
// decorated fields are filled by the query that returns the link:
// SuspectName by links-for-case, the Case* fields and CrimeTypes by
// links-for-suspect.
type SuspectLink struct {
	ID             int64     `db:"id" json:"id"`
	SuspectID      int64     `db:"suspect_id" json:"suspect_id"`
	CaseID         int64     `db:"case_id" json:"case_id"`
	ConnectionType string    `db:"connection_type" json:"connection_type"`
	Notes          *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt      Timestamp `db:"created_at" json:"created_at"`

	SuspectName      string `db:"suspect_name" json:"suspect_name,omitempty"`
	CaseTitle        string `db:"case_title" json:"case_title,omitempty"`
	CaseDateOccurred *Date  `db:"case_date_occurred" json:"case_date_occurred,omitempty"`
	CaseStatus       string `db:"case_status" json:"case_status,omitempty"`
	CrimeTypes       string `db:"-" json:"crime_types,omitempty"`
}

// NewSuspectLink is the input for linking a suspect to a case.
type NewSuspectLink struct {
	SuspectID      int64  `validate:"gt=0"`
	CaseID         int64  `validate:"gt=0"`
	ConnectionType string `validate:"connectiontype"`
	Notes          *string
}

// Validate checks the ids and the connection type.
func (n NewSuspectLink) Validate() error {
	return validateStruct(n)
}

// CaseLink is an undirected similarity link between two cases, stored with
// CaseID1 < CaseID2.
type CaseLink struct {
	ID             int64     `db:"id" json:"id"`
	CaseID1        int64     `db:"case_id_1" json:"case_id_1"`
	CaseID2        int64     `db:"case_id_2" json:"case_id_2"`
	SimilarityNote string    `db:"similarity_note" json:"similarity_note"`
	CreatedAt      Timestamp `db:"created_at" json:"created_at"`

	Case1Title string `db:"case1_title" json:"case1_title"`
	Case2Title string `db:"case2_title" json:"case2_title"`
}

// Other returns the id of the endpoint that is not caseID.
func (l CaseLink) Other(caseID int64) int64 {
	if l.CaseID1 == caseID {
		return l.CaseID2
	}
	return l.CaseID1
}

// NewCaseLink is the input for linking two cases, in either order.
type NewCaseLink struct {
	CaseA          int64  `validate:"gt=0"`
	CaseB          int64  `validate:"gt=0"`
	SimilarityNote string `validate:"notblank"`
}

// Validate checks the ids and note and rejects a case linked to itself.
func (n NewCaseLink) Validate() error {
	if err := validateStruct(n); err != nil {
		return err
	}
	if n.CaseA == n.CaseB {
		return &ValidationError{Field: "CaseB", Message: ErrSelfLink.Error()}
	}
	return nil
}

// Canonical returns the pair ordered as it is stored.
func (n NewCaseLink) Canonical() (lo, hi int64) {
	return CanonicalPair(n.CaseA, n.CaseB)
}

// CanonicalPair orders a case pair as (min, max).
func CanonicalPair(a, b int64) (lo, hi int64) {
	if a < b {
		return a, b
	}
	return b, a
}
