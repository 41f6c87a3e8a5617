package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabularySizes(t *testing.T) {
	assert.Len(t, CrimeTypes, 20)
	assert.Len(t, CaseStatuses, 3)
	assert.Len(t, ConvictionStatuses, 3)
	assert.Len(t, ConnectionTypes, 17)
	assert.Len(t, CaseTags, 18)
}

func TestVocabularyMembership(t *testing.T) {
	assert.True(t, ValidCrimeType(CrimeMissingPerson))
	assert.False(t, ValidCrimeType("homicide"), "labels are case sensitive")
	assert.True(t, ValidCaseStatus(StatusColdCase))
	assert.False(t, ValidCaseStatus("Open"))
	assert.True(t, ValidConvictionStatus(ConvictionSuspected))
	assert.True(t, ValidConnectionType("Phone Records / Cell Data"))
	assert.False(t, ValidConnectionType(""))
	assert.True(t, ValidCaseTag("Wilderness / Rural"))
}

func TestMarkerColor(t *testing.T) {
	for _, ct := range CrimeTypes {
		color := MarkerColor(ct)
		assert.NotEmpty(t, color, ct)
		assert.NotEmpty(t, MarkerHex(color), ct)
	}
	assert.Equal(t, "red", MarkerColor(CrimeHomicide))
	assert.Equal(t, DefaultMarkerColor, MarkerColor(""))
	assert.Equal(t, MarkerHex(DefaultMarkerColor), MarkerHex("chartreuse"))
}

func TestStatusIcon(t *testing.T) {
	for _, s := range CaseStatuses {
		assert.NotEmpty(t, StatusIcon(s), s)
	}
	assert.Empty(t, StatusIcon("Closed"))
}

func TestNodeLabel(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Short", "#7\nShort"},
		{"Exactly twenty-two ch.", "#7\nExactly twenty-two ch."},
		{"A title well over the label width", "#7\nA title well over the "},
		{"Zażółć gęślą jaźń i więcej", "#7\nZażółć gęślą jaźń i wi"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeLabel(7, tt.title))
		})
	}
}
