package types

// Crime types. The order of this list is the order offered to users.
const (
	CrimeHomicide          = "Homicide"
	CrimeAssault           = "Assault"
	CrimeSexualAssault     = "Sexual Assault"
	CrimeRobbery           = "Robbery"
	CrimeBurglary          = "Burglary"
	CrimeTheft             = "Theft"
	CrimeMotorVehicleTheft = "Motor Vehicle Theft"
	CrimeArson             = "Arson"
	CrimeFraud             = "Fraud"
	CrimeForgery           = "Forgery"
	CrimeDrugOffense       = "Drug Offense"
	CrimeKidnapping        = "Kidnapping"
	CrimeDomesticViolence  = "Domestic Violence"
	CrimeHumanTrafficking  = "Human Trafficking"
	CrimeCybercrime        = "Cybercrime"
	CrimeVandalism         = "Vandalism"
	CrimeWeaponsOffense    = "Weapons Offense"
	CrimeGangActivity      = "Gang Activity"
	CrimeMissingPerson     = "Missing Person"
	CrimeOther             = "Other"
)

// CrimeTypes lists every crime type.
var CrimeTypes = []string{
	CrimeHomicide, CrimeAssault, CrimeSexualAssault, CrimeRobbery,
	CrimeBurglary, CrimeTheft, CrimeMotorVehicleTheft, CrimeArson,
	CrimeFraud, CrimeForgery, CrimeDrugOffense, CrimeKidnapping,
	CrimeDomesticViolence, CrimeHumanTrafficking, CrimeCybercrime,
	CrimeVandalism, CrimeWeaponsOffense, CrimeGangActivity,
	CrimeMissingPerson, CrimeOther,
}

// Case statuses.
const (
	StatusActive   = "Active"
	StatusColdCase = "Cold Case"
	StatusSolved   = "Solved"
)

// CaseStatuses lists every case status.
var CaseStatuses = []string{StatusActive, StatusColdCase, StatusSolved}

// Conviction statuses for suspect crime history.
const (
	ConvictionConvicted = "Convicted"
	ConvictionArrested  = "Arrested"
	ConvictionSuspected = "Suspected"
)

// ConvictionStatuses lists every conviction status.
var ConvictionStatuses = []string{ConvictionConvicted, ConvictionArrested, ConvictionSuspected}

// ConnectionTypes lists the evidence categories that can tie a suspect to a
// case.
var ConnectionTypes = []string{
	"DNA Evidence",
	"Fingerprint Match",
	"Eyewitness Identification",
	"Phone Records / Cell Data",
	"CCTV / Video Evidence",
	"Financial Records",
	"Digital / Cyber Evidence",
	"Vehicle Link",
	"Ballistics Match",
	"Informant Tip",
	"Confession",
	"Physical Evidence",
	"Geographic Proximity",
	"Known Associate",
	"Prior Record",
	"Social Media Link",
	"Other",
}

// CaseTags lists the descriptive labels a case can carry.
var CaseTags = []string{
	"Minor Victim",
	"Adult Victim",
	"Elderly Victim",
	"Multiple Victims",
	"Domestic",
	"Organized Crime",
	"Hate Crime",
	"Sexually Motivated",
	"Financially Motivated",
	"Random / Stranger",
	"Indoor",
	"Outdoor",
	"Public Space",
	"Residential",
	"Wilderness / Rural",
	"Weapon Recovered",
	"Forensic Evidence",
	"No Physical Evidence",
}

var (
	crimeTypeSet  = setOf(CrimeTypes)
	statusSet     = setOf(CaseStatuses)
	convictionSet = setOf(ConvictionStatuses)
	connectionSet = setOf(ConnectionTypes)
	caseTagSet    = setOf(CaseTags)
)

func setOf(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// ValidCrimeType reports whether s is a known crime type.
func ValidCrimeType(s string) bool { return crimeTypeSet[s] }

// ValidCaseStatus reports whether s is a known case status.
func ValidCaseStatus(s string) bool { return statusSet[s] }

// ValidConvictionStatus reports whether s is a known conviction status.
func ValidConvictionStatus(s string) bool { return convictionSet[s] }

// ValidConnectionType reports whether s is a known connection type.
func ValidConnectionType(s string) bool { return connectionSet[s] }

// ValidCaseTag reports whether s is a known case tag.
func ValidCaseTag(s string) bool { return caseTagSet[s] }

// Status icons shown next to a case status.
var statusIcons = map[string]string{
	StatusActive:   "🟢",
	StatusColdCase: "🧊",
	StatusSolved:   "✅",
}

// StatusIcon returns the icon for a case status, or "" for unknown values.
func StatusIcon(status string) string { return statusIcons[status] }

// Map legend. Each crime type maps to a marker color name, and each color
// name to its hex value.
var crimeTypeColors = map[string]string{
	CrimeHomicide:          "red",
	CrimeAssault:           "orange",
	CrimeSexualAssault:     "purple",
	CrimeRobbery:           "darkred",
	CrimeBurglary:          "blue",
	CrimeTheft:             "lightblue",
	CrimeMotorVehicleTheft: "cadetblue",
	CrimeArson:             "darkred",
	CrimeFraud:             "green",
	CrimeForgery:           "lightgreen",
	CrimeDrugOffense:       "darkgreen",
	CrimeKidnapping:        "pink",
	CrimeDomesticViolence:  "cadetblue",
	CrimeHumanTrafficking:  "darkpurple",
	CrimeCybercrime:        "lightgreen",
	CrimeVandalism:         "gray",
	CrimeWeaponsOffense:    "orange",
	CrimeGangActivity:      "darkred",
	CrimeMissingPerson:     "pink",
	CrimeOther:             "beige",
}

var markerHex = map[string]string{
	"red": "#d63e2a", "orange": "#f69730", "purple": "#9b59b6",
	"darkred": "#a23336", "blue": "#38aadd", "lightblue": "#8adaff",
	"cadetblue": "#436978", "green": "#72b026", "lightgreen": "#bbf970",
	"darkgreen": "#728224", "pink": "#ff91ea", "darkpurple": "#5b3566",
	"gray": "#575757", "lightgray": "#a3a3a3", "beige": "#ffcb92",
}

// DefaultMarkerColor is used for cases without a primary crime type.
const DefaultMarkerColor = "beige"

// Default map center used when no case has coordinates.
const (
	DefaultCenterLat = 54.0
	DefaultCenterLon = 15.0
)

// MarkerColor returns the marker color name for a crime type.
func MarkerColor(crimeType string) string {
	if c, ok := crimeTypeColors[crimeType]; ok {
		return c
	}
	return DefaultMarkerColor
}

// MarkerHex returns the hex value for a marker color name.
func MarkerHex(color string) string {
	if h, ok := markerHex[color]; ok {
		return h
	}
	return markerHex[DefaultMarkerColor]
}
