// Package department normalizes free-text department names. Two mappings
// exist on purpose: identifiers carry the short code, storage lookups use
// the canonical display name.
package department

import "strings"

// Identifier codes.
const (
	CodeArch   = "ARCH"
	CodeStruct = "ST"
	CodeElect  = "ELECT"
	CodeMech   = "MECH"
	CodeSurv   = "SURV"
)

// Canonical display names as stored in the database.
const (
	NameArchitectural = "Architectural"
	NameCivil         = "Civil"
	NameElectrical    = "Electrical"
	NameMechanical    = "Mechanical"
	NameSurvey        = "Survey"
)

// CodeFor maps a free-text department name to the short code used inside
// request identifiers. Matching is a case-insensitive substring check over
// the English and Arabic department tokens; anything unrecognized falls
// back to the structural code.
func CodeFor(raw string) string {
	dept := strings.ToUpper(strings.TrimSpace(raw))
	if dept == "" {
		return CodeStruct
	}

	switch {
	case strings.Contains(dept, "ARCH") || strings.Contains(dept, "معماري"):
		return CodeArch
	case strings.Contains(dept, "CIVIL") || strings.Contains(dept, "STRUCT") || strings.Contains(dept, "إنشائي"):
		return CodeStruct
	case strings.Contains(dept, "ELECT") || strings.Contains(dept, "كهرباء"):
		return CodeElect
	case strings.Contains(dept, "MEP") || strings.Contains(dept, "MECH") || strings.Contains(dept, "ميكانيكا"):
		return CodeMech
	case strings.Contains(dept, "SURV") || strings.Contains(dept, "مساحة"):
		return CodeSurv
	default:
		return CodeStruct
	}
}

// NameFor maps a free-text department name to the display name storage
// documents are keyed by. Exact canonical names pass through untouched;
// otherwise the same substring matching as CodeFor applies. The default is
// Architectural.
func NameFor(raw string) string {
	dept := strings.TrimSpace(raw)
	if dept == "" {
		return NameArchitectural
	}

	switch dept {
	case NameArchitectural, NameCivil, NameElectrical, NameMechanical, NameSurvey:
		return dept
	}

	upper := strings.ToUpper(dept)
	switch {
	case strings.Contains(upper, "ARCH"):
		return NameArchitectural
	case strings.Contains(upper, "CIVIL") || strings.Contains(upper, "STRUCT"):
		return NameCivil
	case strings.Contains(upper, "ELECT"):
		return NameElectrical
	case strings.Contains(upper, "MEP") || strings.Contains(upper, "MECH"):
		return NameMechanical
	case strings.Contains(upper, "SURV"):
		return NameSurvey
	default:
		return NameArchitectural
	}
}
