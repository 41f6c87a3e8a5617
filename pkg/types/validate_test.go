package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixNow pins the current time used by date rules.
func fixNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

func validCase() NewCase {
	return NewCase{
		Title:        "Park strangling",
		DateOccurred: NewDate(2019, 8, 14),
		Status:       StatusActive,
		CrimeTypes:   []string{CrimeHomicide},
	}
}

// fields returns the names of the fields rejected in err.
func fields(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var out []string
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		for _, e := range multi.Unwrap() {
			var ve *ValidationError
			require.True(t, errors.As(e, &ve), "unexpected error %v", e)
			out = append(out, ve.Field)
		}
		return out
	}
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	return []string{ve.Field}
}

func TestNewCaseValidate(t *testing.T) {
	fixNow(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	lat := 91.0
	tests := []struct {
		name       string
		mutate     func(c *NewCase)
		wantFields []string
	}{
		{name: "valid", mutate: func(c *NewCase) {}},
		{
			name:   "murder with victims",
			mutate: func(c *NewCase) { c.IsMurder = true; c.VictimCount = ptrTo(int64(2)) },
		},
		{name: "blank title", mutate: func(c *NewCase) { c.Title = "  " }, wantFields: []string{"Title"}},
		{name: "missing date", mutate: func(c *NewCase) { c.DateOccurred = Date{} }, wantFields: []string{"DateOccurred"}},
		{name: "date before 1800", mutate: func(c *NewCase) { c.DateOccurred = NewDate(1700, 1, 1) }, wantFields: []string{"DateOccurred"}},
		{name: "date after current year", mutate: func(c *NewCase) { c.DateOccurred = NewDate(2027, 1, 1) }, wantFields: []string{"DateOccurred"}},
		{name: "retired status", mutate: func(c *NewCase) { c.Status = "Open" }, wantFields: []string{"Status"}},
		{name: "no crime type", mutate: func(c *NewCase) { c.CrimeTypes = nil }, wantFields: []string{"CrimeTypes"}},
		{name: "unknown crime type", mutate: func(c *NewCase) { c.CrimeTypes = []string{"Jaywalking"} }, wantFields: []string{"CrimeTypes[0]"}},
		{name: "unknown tag", mutate: func(c *NewCase) { c.Tags = []string{"Outdoor", "Spooky"} }, wantFields: []string{"Tags[1]"}},
		{name: "latitude out of range", mutate: func(c *NewCase) { c.CrimeSceneLat = &lat }, wantFields: []string{"CrimeSceneLat"}},
		{name: "zero victims", mutate: func(c *NewCase) { c.IsMurder = true; c.VictimCount = ptrTo(int64(0)) }, wantFields: []string{"VictimCount"}},
		{name: "victims without murder", mutate: func(c *NewCase) { c.VictimCount = ptrTo(int64(1)) }, wantFields: []string{"VictimCount"}},
		{
			name:       "several failures are joined",
			mutate:     func(c *NewCase) { c.Title = ""; c.Status = "Closed" },
			wantFields: []string{"Title", "Status"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCase()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.ElementsMatch(t, tt.wantFields, fields(t, err))
		})
	}
}

func TestCasePatchValidate(t *testing.T) {
	fixNow(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name       string
		patch      CasePatch
		wantFields []string
	}{
		{name: "empty", patch: CasePatch{}},
		{name: "clearing is always allowed", patch: CasePatch{VictimCount: Clear[int64](), CrimeSceneLat: Clear[float64]()}},
		{name: "blank title", patch: CasePatch{Title: ptrTo(" ")}, wantFields: []string{"Title"}},
		{name: "bad status", patch: CasePatch{Status: ptrTo("Linked")}, wantFields: []string{"Status"}},
		{name: "future date", patch: CasePatch{DateOccurred: ptrTo(NewDate(2030, 1, 1))}, wantFields: []string{"DateOccurred"}},
		{name: "longitude out of range", patch: CasePatch{BodyFoundLon: Set(181.0)}, wantFields: []string{"BodyFoundLon"}},
		{
			name:       "victims while unsetting murder",
			patch:      CasePatch{IsMurder: ptrTo(false), VictimCount: Set[int64](2)},
			wantFields: []string{"VictimCount"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.ElementsMatch(t, tt.wantFields, fields(t, err))
		})
	}
}

func TestCasePatchEmpty(t *testing.T) {
	assert.True(t, CasePatch{}.Empty())
	assert.False(t, CasePatch{MODescription: Clear[string]()}.Empty())
	assert.True(t, SuspectPatch{}.Empty())
	assert.False(t, ProjectPatch{Name: ptrTo("x")}.Empty())
}

func TestReplacementListValidation(t *testing.T) {
	assert.NoError(t, ValidateCrimeTypes([]string{CrimeArson, CrimeFraud}))
	assert.ErrorIs(t, ValidateCrimeTypes(nil), ErrInvalidInput)
	assert.ErrorIs(t, ValidateCrimeTypes([]string{"Piracy"}), ErrInvalidInput)

	assert.NoError(t, ValidateTags(nil))
	assert.NoError(t, ValidateTags([]string{"Indoor"}))
	assert.ErrorIs(t, ValidateTags([]string{"indoor"}), ErrInvalidInput)
}

func TestInputValidate(t *testing.T) {
	fixNow(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		input     interface{ Validate() error }
		wantField string
	}{
		{name: "suspect", input: NewSuspect{Name: "Ola"}},
		{name: "suspect blank name", input: NewSuspect{Name: ""}, wantField: "Name"},
		{name: "suspect patch blank name", input: SuspectPatch{Name: ptrTo("\t")}, wantField: "Name"},
		{
			name:  "history undated",
			input: NewHistoryEntry{SuspectID: 1, CrimeType: CrimeTheft, ConvictionStatus: ConvictionArrested},
		},
		{
			name:      "history bad conviction",
			input:     NewHistoryEntry{SuspectID: 1, CrimeType: CrimeTheft, ConvictionStatus: "Acquitted"},
			wantField: "ConvictionStatus",
		},
		{
			name:      "history date too early",
			input:     NewHistoryEntry{SuspectID: 1, CrimeType: CrimeTheft, ConvictionStatus: ConvictionSuspected, DateOfCrime: ptrTo(NewDate(1750, 1, 1))},
			wantField: "DateOfCrime",
		},
		{name: "suspect link", input: NewSuspectLink{SuspectID: 1, CaseID: 2, ConnectionType: "Vehicle Link"}},
		{name: "suspect link bad type", input: NewSuspectLink{SuspectID: 1, CaseID: 2, ConnectionType: "Hunch"}, wantField: "ConnectionType"},
		{name: "suspect link no suspect", input: NewSuspectLink{CaseID: 2, ConnectionType: "Vehicle Link"}, wantField: "SuspectID"},
		{name: "case link", input: NewCaseLink{CaseA: 3, CaseB: 1, SimilarityNote: "same MO"}},
		{name: "case link self", input: NewCaseLink{CaseA: 3, CaseB: 3, SimilarityNote: "same MO"}, wantField: "CaseB"},
		{name: "case link no note", input: NewCaseLink{CaseA: 3, CaseB: 1}, wantField: "SimilarityNote"},
		{name: "event", input: NewEvent{CaseID: 1, EventTimestamp: eventAt(2025, 12, 31), Title: "Call"}},
		{name: "event no timestamp", input: NewEvent{CaseID: 1, Title: "Call"}, wantField: "EventTimestamp"},
		{name: "event in 1800", input: NewEvent{CaseID: 1, EventTimestamp: eventAt(1800, 1, 1), Title: "Call"}},
		{name: "event too early", input: NewEvent{CaseID: 1, EventTimestamp: eventAt(1799, 12, 31), Title: "Call"}, wantField: "EventTimestamp"},
		{name: "event next year", input: NewEvent{CaseID: 1, EventTimestamp: eventAt(2027, 1, 1), Title: "Call"}, wantField: "EventTimestamp"},
		{name: "project", input: NewProject{Name: "North"}},
		{name: "project blank name", input: NewProject{Name: " "}, wantField: "Name"},
		{name: "project patch blank name", input: ProjectPatch{Name: ptrTo("")}, wantField: "Name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{tt.wantField}, fields(t, err))
		})
	}
}

func TestValidationMessages(t *testing.T) {
	err := NewSuspectLink{SuspectID: 1, CaseID: 1, ConnectionType: "Hunch"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `ConnectionType: "Hunch" is not a known connection type`)
}

func TestCanonicalPair(t *testing.T) {
	lo, hi := CanonicalPair(9, 4)
	assert.Equal(t, int64(4), lo)
	assert.Equal(t, int64(9), hi)

	lo, hi = NewCaseLink{CaseA: 2, CaseB: 5}.Canonical()
	assert.Equal(t, [2]int64{2, 5}, [2]int64{lo, hi})
}

func ptrTo[T any](v T) *T { return &v }

func eventAt(year int, month time.Month, day int) Timestamp {
	return Timestamp{time.Date(year, month, day, 9, 30, 0, 0, time.UTC)}
}
