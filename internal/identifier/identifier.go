// Package identifier composes and picks apart the human-readable request
// and revision numbers. Generation is pure; uniqueness is the counter
// store's job.
package identifier

import (
	"fmt"
	"strings"
)

// Request kinds.
const (
	KindIR  = "IR"
	KindCPR = "CPR"
)

// Revision kinds.
const (
	RevisionIR  = "IR_REVISION"
	RevisionCPR = "CPR_REVISION"
)

const prefix = "BADYA-CON"

// CleanProject normalizes a project name the way it appears inside
// identifiers: uppercase, spaces replaced with dashes.
func CleanProject(project string) string {
	return strings.ToUpper(strings.ReplaceAll(project, " ", "-"))
}

// ForRequest composes the canonical request identifier. The serial is
// zero-padded to at least three digits; past 999 the digit count grows.
func ForRequest(project, deptCode string, serial int, kind string) string {
	clean := CleanProject(project)
	if kind == KindCPR {
		return fmt.Sprintf("%s-%s-CPR-%03d", prefix, clean, serial)
	}
	return fmt.Sprintf("%s-%s-IR-%s-%03d", prefix, clean, deptCode, serial)
}

// ForRevision composes a revision identifier. Revisions use a scheme of
// their own so they never collide with request numbers.
func ForRevision(project, revisionKind string, serial int) string {
	tag := "IRREV"
	if revisionKind == RevisionCPR {
		tag = "CPRREV"
	}
	return fmt.Sprintf("REV-%s-%s-%03d", CleanProject(project), tag, serial)
}

// RevisionPrefix is the display prefix shown next to a user-supplied
// revision label.
func RevisionPrefix(revisionKind string) string {
	if revisionKind == RevisionCPR {
		return "REV-CPR"
	}
	return "REV-IR"
}

// Serial extracts the trailing serial segment of an identifier, or returns
// the input untouched when it carries no dashes. Full canonical
// identifiers with fewer than six segments yield an empty serial.
func Serial(id string) string {
	if !strings.Contains(id, "-") {
		return id
	}
	parts := strings.Split(id, "-")
	if strings.HasPrefix(id, prefix+"-") && len(parts) < 6 {
		return ""
	}
	return parts[len(parts)-1]
}

// WithDept rewrites the department segment of a canonical request
// identifier. Identifiers outside the canonical scheme pass through
// unchanged.
func WithDept(id, deptCode string) string {
	if deptCode == "" || !strings.Contains(id, prefix) {
		return id
	}
	parts := strings.Split(id, "-")
	// The department code sits between the IR tag and the serial.
	for i, p := range parts {
		if p == KindIR && i+2 < len(parts) {
			parts[i+1] = deptCode
			break
		}
	}
	return strings.Join(parts, "-")
}
