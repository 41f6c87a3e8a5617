package types

import (
	"database/sql"
	"errors"
)

// Case is one criminal investigation record. CrimeTypes and Tags are filled
// by the store from their association tables; CrimeTypes[0] is the primary
// crime type.
type Case struct {
	ID                int64     `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	DateOccurred      Date      `db:"date_occurred" json:"date_occurred"`
	Status            string    `db:"status" json:"status"`
	IsMurder          bool      `db:"is_murder" json:"is_murder"`
	VictimCount       *int64    `db:"victim_count" json:"victim_count,omitempty"`
	MODescription     *string   `db:"mo_description" json:"mo_description,omitempty"`
	VictimProfile     *string   `db:"victim_profile" json:"victim_profile,omitempty"`
	CrimeSceneAddress *string   `db:"crime_scene_address" json:"crime_scene_address,omitempty"`
	CrimeSceneLat     *float64  `db:"crime_scene_lat" json:"crime_scene_lat,omitempty"`
	CrimeSceneLon     *float64  `db:"crime_scene_lon" json:"crime_scene_lon,omitempty"`
	BodyFoundAddress  *string   `db:"body_found_address" json:"body_found_address,omitempty"`
	BodyFoundLat      *float64  `db:"body_found_lat" json:"body_found_lat,omitempty"`
	BodyFoundLon      *float64  `db:"body_found_lon" json:"body_found_lon,omitempty"`
	CreatedAt         Timestamp `db:"created_at" json:"created_at"`

	CrimeTypes []string `db:"-" json:"crime_types,omitempty"`
	Tags       []string `db:"-" json:"tags,omitempty"`
}

// PrimaryCrimeType returns the first crime type, or "" when none is set.
func (c *Case) PrimaryCrimeType() string {
	if len(c.CrimeTypes) == 0 {
		return ""
	}
	return c.CrimeTypes[0]
}

// HasCrimeScene reports whether both crime-scene coordinates are present.
func (c *Case) HasCrimeScene() bool {
	return c.CrimeSceneLat != nil && c.CrimeSceneLon != nil
}

// NewCase is the input for creating a case. When CrimeTypes or Tags are
// non-empty the store writes them in the same transaction as the case.
type NewCase struct {
	Title             string   `validate:"notblank"`
	DateOccurred      Date     `validate:"required,casedate"`
	Status            string   `validate:"required,casestatus"`
	IsMurder          bool
	VictimCount       *int64   `validate:"omitempty,gt=0"`
	MODescription     *string
	VictimProfile     *string
	CrimeSceneAddress *string
	CrimeSceneLat     *float64 `validate:"omitempty,latitude"`
	CrimeSceneLon     *float64 `validate:"omitempty,longitude"`
	BodyFoundAddress  *string
	BodyFoundLat      *float64 `validate:"omitempty,latitude"`
	BodyFoundLon      *float64 `validate:"omitempty,longitude"`
	CrimeTypes        []string `validate:"min=1,dive,crimetype"`
	Tags              []string `validate:"dive,casetag"`
}

// Validate checks the input at the system boundary. A case needs a title, a
// real date, a known status, and at least one known crime type. Victim count
// is only accepted for murder cases.
func (n NewCase) Validate() error {
	if err := validateStruct(n); err != nil {
		return err
	}
	if n.VictimCount != nil && !n.IsMurder {
		return invalid("VictimCount", "is only recorded for murder cases")
	}
	return nil
}

// CasePatch lists the case fields to change. Nil fields are left alone.
// Clearable columns use sql.Null: a non-nil value with Valid false writes
// NULL.
type CasePatch struct {
	Title             *string
	DateOccurred      *Date
	Status            *string
	IsMurder          *bool
	VictimCount       *sql.Null[int64]
	MODescription     *sql.Null[string]
	VictimProfile     *sql.Null[string]
	CrimeSceneAddress *sql.Null[string]
	CrimeSceneLat     *sql.Null[float64]
	CrimeSceneLon     *sql.Null[float64]
	BodyFoundAddress  *sql.Null[string]
	BodyFoundLat      *sql.Null[float64]
	BodyFoundLon      *sql.Null[float64]
}

// Empty reports whether the patch changes nothing.
func (p CasePatch) Empty() bool {
	return p == CasePatch{}
}

// Validate applies the NewCase rules to the fields being set.
func (p CasePatch) Validate() error {
	var errs []error
	if p.Title != nil {
		errs = append(errs, validateVar("Title", *p.Title, "notblank"))
	}
	if p.DateOccurred != nil {
		errs = append(errs, validateVar("DateOccurred", p.DateOccurred.String(), "required,casedate"))
	}
	if p.Status != nil {
		errs = append(errs, validateVar("Status", *p.Status, "casestatus"))
	}
	if p.VictimCount != nil && p.VictimCount.Valid {
		errs = append(errs, validateVar("VictimCount", p.VictimCount.V, "gt=0"))
		if p.IsMurder != nil && !*p.IsMurder {
			errs = append(errs, invalid("VictimCount", "is only recorded for murder cases"))
		}
	}
	coords := []struct {
		field string
		value *sql.Null[float64]
		tag   string
	}{
		{"CrimeSceneLat", p.CrimeSceneLat, "latitude"},
		{"CrimeSceneLon", p.CrimeSceneLon, "longitude"},
		{"BodyFoundLat", p.BodyFoundLat, "latitude"},
		{"BodyFoundLon", p.BodyFoundLon, "longitude"},
	}
	for _, c := range coords {
		if c.value != nil && c.value.Valid {
			errs = append(errs, validateVar(c.field, c.value.V, c.tag))
		}
	}
	return errors.Join(errs...)
}

// Set returns a patch value that writes v.
func Set[T any](v T) *sql.Null[T] {
	return &sql.Null[T]{V: v, Valid: true}
}

// Clear returns a patch value that writes NULL.
func Clear[T any]() *sql.Null[T] {
	return &sql.Null[T]{}
}

// ValidateCrimeTypes checks a replacement list of crime types for a case.
func ValidateCrimeTypes(crimeTypes []string) error {
	return validateVar("CrimeTypes", crimeTypes, "min=1,dive,crimetype")
}

// ValidateTags checks a replacement list of case tags.
func ValidateTags(tags []string) error {
	return validateVar("Tags", tags, "dive,casetag")
}
