package types

// Store table names, in dependency order.
const (
	CasesTable            = "cases"
	CaseCrimeTypesTable   = "case_crime_types"
	CaseTagsTable         = "case_tags"
	SuspectsTable         = "suspects"
	SuspectCrimeHistTable = "suspect_crime_history"
	SuspectCaseLinksTable = "suspect_case_links"
	CaseLinksTable        = "case_links"
	TimelineEventsTable   = "timeline_events"
	ProjectsTable         = "projects"
	ProjectCasesTable     = "project_cases"
)

// StandardTableNames lists all store tables for enumeration.
var StandardTableNames = []string{
	CasesTable,
	CaseCrimeTypesTable,
	CaseTagsTable,
	SuspectsTable,
	SuspectCrimeHistTable,
	SuspectCaseLinksTable,
	CaseLinksTable,
	TimelineEventsTable,
	ProjectsTable,
	ProjectCasesTable,
}
