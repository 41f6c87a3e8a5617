package types

// TimelineEvent is a dated occurrence within a case. CaseTitle is filled by
// the cross-case listing.
type TimelineEvent struct {
	ID             int64     `db:"id" json:"id"`
	CaseID         int64     `db:"case_id" json:"case_id"`
	EventTimestamp Timestamp `db:"event_timestamp" json:"event_timestamp"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	CreatedAt      Timestamp `db:"created_at" json:"created_at"`

	CaseTitle string `db:"case_title" json:"case_title,omitempty"`
}

// NewEvent is the input for a timeline event.
type NewEvent struct {
	CaseID         int64     `validate:"gt=0"`
	EventTimestamp Timestamp `validate:"required,casetime"`
	Title          string    `validate:"notblank"`
	Description    *string
}

// Validate checks the case id, timestamp, and title.
func (n NewEvent) Validate() error {
	return validateStruct(n)
}
