// Package domain holds the record schemas stored in the document database.
// Field names mirror the stored document layout exactly.
package domain

// Record statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// RoleDC is the document-controller role; any other role string counts as
// an engineer for archive tagging.
const RoleDC = "dc"

// ArchiveMeta is the archive bookkeeping shared by requests and revisions.
// It is stamped on archive and cleared again on restore.
type ArchiveMeta struct {
	IsArchived         bool   `json:"isArchived"`
	ArchivedAt         string `json:"archivedAt,omitempty"`
	ArchivedBy         string `json:"archivedBy,omitempty"`
	ArchivedByDC       bool   `json:"archivedByDC,omitempty"`
	ArchivedByEngineer bool   `json:"archivedByEngineer,omitempty"`
}

// Request is an inspection request (IR) or concrete pouring request (CPR).
// The identifier doubles as the document key in whichever collection
// currently holds the record.
type Request struct {
	IRNo         string         `json:"irNo"`
	OldIRNo      string         `json:"oldIrNo,omitempty"`
	Project      string         `json:"project"`
	Department   string         `json:"department"`
	DeptAbbr     string         `json:"deptAbbr"`
	User         string         `json:"user"`
	Desc         string         `json:"desc"`
	Location     string         `json:"location"`
	Floor        string         `json:"floor"`
	RequestType  string         `json:"requestType"`
	Tags         map[string]any `json:"tags"`
	EngineerNote string         `json:"engineerNote"`
	SDNote       string         `json:"sdNote"`

	// CPR-only fields.
	ConcreteGrade  string `json:"concreteGrade,omitempty"`
	PouringElement string `json:"pouringElement,omitempty"`

	Status       string `json:"status"`
	IsDone       bool   `json:"isDone"`
	SentAt       string `json:"sentAt"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
	CreatedBy    string `json:"createdBy"`
	CompletedAt  string `json:"completedAt,omitempty"`
	DownloadedBy string `json:"downloadedBy,omitempty"`
	DownloadedAt string `json:"downloadedAt,omitempty"`

	ArchiveMeta
}

// Revision is a follow-up record tied to an original request's project and
// department, with its own identifier scheme and counters. IRNo carries the
// same value as RevNo so revision rows render in shared list views.
type Revision struct {
	RevNo             string `json:"revNo"`
	IRNo              string `json:"irNo"`
	UserRevNumber     string `json:"userRevNumber"`
	RevText           string `json:"revText"`
	RevNumber         string `json:"revNumber"`
	DisplayNumber     string `json:"displayNumber"`
	RevNote           string `json:"revNote"`
	Desc              string `json:"desc"`
	Department        string `json:"department"`
	User              string `json:"user"`
	Project           string `json:"project"`
	IsRevision        bool   `json:"isRevision"`
	RevisionType      string `json:"revisionType"`
	ParentRequestType string `json:"parentRequestType"`
	RequestType       string `json:"requestType"`
	IsCPRRevision     bool   `json:"isCPRRevision"`
	IsIRRevision      bool   `json:"isIRRevision"`
	Counter           int    `json:"counter"`
	CounterType       string `json:"counterType"`
	Version           string `json:"version"`
	IsActive          bool   `json:"isActive"`

	Status      string `json:"status"`
	IsDone      bool   `json:"isDone"`
	SentAt      string `json:"sentAt"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	CreatedBy   string `json:"createdBy"`
	CompletedAt string `json:"completedAt,omitempty"`

	ArchiveMeta
}

// Project is keyed by its display name. Counters maps a scope key (a
// department code, or "CPR") to the last serial handed out for that scope.
type Project struct {
	Name      string         `json:"name"`
	Counters  map[string]int `json:"counters"`
	Locations []Location     `json:"locations,omitempty"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// Location is a site location pattern, optionally typed.
type Location struct {
	Pattern string `json:"pattern"`
	Type    string `json:"type,omitempty"`
}

// LocationRules is the per-project override document in location_rules.
type LocationRules struct {
	Rules []Location `json:"rules"`
}

// User is keyed by lowercase username.
type User struct {
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Password   string `json:"password,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
	LastLogin  string `json:"lastLogin,omitempty"`
}

// DescriptionSet is the per-department reference data behind the
// description pickers. Elements and Grades only apply to the CPR variant.
type DescriptionSet struct {
	Base     []string `json:"base"`
	Floors   []string `json:"floors"`
	Elements []string `json:"elements,omitempty"`
	Grades   []string `json:"grades,omitempty"`
}
