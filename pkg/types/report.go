package types

import (
	"fmt"
	"strings"
)

// MapCase is a case with crime-scene coordinates, annotated for map
// rendering.
type MapCase struct {
	Case
	PrimaryType string `db:"primary_crime_type" json:"primary_crime_type"`
	MarkerColor string `db:"-" json:"marker_color"`
	StatusIcon  string `db:"-" json:"status_icon"`
}

// MapLink is a case link whose endpoints both have crime-scene coordinates.
type MapLink struct {
	SimilarityNote string  `db:"similarity_note" json:"similarity_note"`
	Case1ID        int64   `db:"c1_id" json:"case1_id"`
	Case1Title     string  `db:"c1_title" json:"case1_title"`
	Case1Lat       float64 `db:"c1_lat" json:"case1_lat"`
	Case1Lon       float64 `db:"c1_lon" json:"case1_lon"`
	Case2ID        int64   `db:"c2_id" json:"case2_id"`
	Case2Title     string  `db:"c2_title" json:"case2_title"`
	Case2Lat       float64 `db:"c2_lat" json:"case2_lat"`
	Case2Lon       float64 `db:"c2_lon" json:"case2_lon"`
}

// Network is the case-link graph: one node per linked case and one edge per
// link.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// NetworkNode is a case that takes part in at least one link.
type NetworkNode struct {
	CaseID     int64    `json:"case_id"`
	Title      string   `json:"title"`
	Label      string   `json:"label"`
	Status     string   `json:"status"`
	CrimeTypes []string `json:"crime_types,omitempty"`
}

// NetworkEdge is one case link.
type NetworkEdge struct {
	LinkID int64  `json:"link_id"`
	From   int64  `json:"from"`
	To     int64  `json:"to"`
	Label  string `json:"label"`
}

// NodeLabelWidth is the number of title runes kept in a node label.
const NodeLabelWidth = 22

// NodeLabel renders "#<id>" over the first NodeLabelWidth runes of the
// title.
func NodeLabel(id int64, title string) string {
	r := []rune(strings.TrimSpace(title))
	if len(r) > NodeLabelWidth {
		r = r[:NodeLabelWidth]
	}
	return fmt.Sprintf("#%d\n%s", id, string(r))
}

// Summary holds case counts for a dashboard.
type Summary struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	MurderCases int            `json:"murder_cases"`
	Victims     int64          `json:"victims"`
}

// ExportManifest describes one export written by Store.Export.
type ExportManifest struct {
	ExportID      string         `json:"export_id"`
	ExportedAt    Timestamp      `json:"exported_at"`
	SchemaVersion int            `json:"schema_version"`
	Tables        map[string]int `json:"tables"`
}
