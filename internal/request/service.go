// Package request implements the request lifecycle: identifier assignment,
// completion, renumbering, archiving and restoration of inspection and
// concrete pouring requests and their revisions.
package request

import (
	"context"
	"errors"
	"strings"

	"github.com/contech-dc/contrack/internal/counter"
	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/identifier"
	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// Service orchestrates all record lifecycle operations against the
// document store. Counter advances and cross-collection moves run inside
// single store transactions.
type Service struct {
	store    store.Store
	counters *counter.Counters
	clock    *timefmt.Clock
}

// NewService wires a Service.
func NewService(st store.Store, counters *counter.Counters, clock *timefmt.Clock) *Service {
	return &Service{store: st, counters: counters, clock: clock}
}

// Clock exposes the service clock for response timestamps.
func (s *Service) Clock() *timefmt.Clock { return s.clock }

// CreateRequestInput is the caller input for a new IR or CPR.
type CreateRequestInput struct {
	Project        string
	Department     string
	User           string
	Desc           string
	Location       string
	Floor          string
	RequestType    string
	Tags           map[string]any
	EngineerNote   string
	SDNote         string
	ConcreteGrade  string
	PouringElement string
}

// CreateRequest validates the input, advances the project counter for the
// request's scope, and persists the new record under its generated
// identifier. It returns the record and the serial it was assigned.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*domain.Request, int, error) {
	project := strings.TrimSpace(in.Project)
	dept := strings.TrimSpace(in.Department)
	user := strings.TrimSpace(in.User)
	kind := strings.ToUpper(strings.TrimSpace(in.RequestType))
	if kind == "" {
		kind = identifier.KindIR
	}

	var missing []string
	if project == "" {
		missing = append(missing, "project")
	}
	if dept == "" {
		missing = append(missing, "department")
	}
	if user == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(in.Desc) == "" {
		missing = append(missing, "desc")
	}
	if len(missing) > 0 {
		return nil, 0, validationf("missing required fields: %s", strings.Join(missing, ", "))
	}

	deptCode := department.CodeFor(dept)
	if kind == identifier.KindCPR && deptCode != department.CodeStruct {
		return nil, 0, validationf("CPR requests are only available for Civil/Structure department")
	}

	tags := in.Tags
	if tags == nil {
		tags = map[string]any{}
	}

	var req domain.Request
	var serial int
	err := s.store.Transact(ctx, func(tx store.Ops) error {
		n, err := s.counters.NextTx(ctx, tx, project, counter.ScopeFor(kind, deptCode))
		if err != nil {
			return err
		}
		serial = n

		now := s.clock.Stamp()
		req = domain.Request{
			IRNo:         identifier.ForRequest(project, deptCode, n, kind),
			Project:      project,
			Department:   dept,
			DeptAbbr:     deptCode,
			User:         user,
			Desc:         in.Desc,
			Location:     in.Location,
			Floor:        in.Floor,
			RequestType:  kind,
			Tags:         tags,
			EngineerNote: in.EngineerNote,
			SDNote:       in.SDNote,
			Status:       domain.StatusPending,
			SentAt:       now,
			CreatedAt:    now,
			UpdatedAt:    now,
			CreatedBy:    user,
		}
		if kind == identifier.KindCPR {
			req.ConcreteGrade = in.ConcreteGrade
			req.PouringElement = in.PouringElement
		}
		return tx.Set(ctx, store.Requests, req.IRNo, req)
	})
	if err != nil {
		return nil, 0, wrap("create request", err)
	}
	return &req, serial, nil
}

// CreateRevisionInput is the caller input for a new revision record.
type CreateRevisionInput struct {
	Project           string
	RevText           string
	RevNote           string
	RevisionType      string
	ParentRequestType string
	Department        string
	User              string
}

// CreateRevision assigns the next number in the (project, revision kind)
// sequence and persists the revision.
func (s *Service) CreateRevision(ctx context.Context, in CreateRevisionInput) (*domain.Revision, error) {
	project := strings.TrimSpace(in.Project)
	revText := strings.TrimSpace(in.RevText)
	dept := strings.TrimSpace(in.Department)
	user := strings.TrimSpace(in.User)

	if project == "" || revText == "" {
		return nil, validationf("project and revision number are required")
	}
	if dept == "" || user == "" {
		return nil, validationf("department and user are required")
	}

	revisionType := in.RevisionType
	if revisionType == "" {
		revisionType = identifier.RevisionIR
	}
	parentKind := in.ParentRequestType
	if parentKind == "" {
		parentKind = identifier.KindIR
	}

	var rev domain.Revision
	err := s.store.Transact(ctx, func(tx store.Ops) error {
		n, err := s.counters.NextRevisionTx(ctx, tx, project, revisionType)
		if err != nil {
			return err
		}

		revNo := identifier.ForRevision(project, revisionType, n)
		prefix := identifier.RevisionPrefix(revisionType)
		desc := prefix + ": " + revText
		if in.RevNote != "" {
			desc += " - " + in.RevNote
		}

		now := s.clock.Stamp()
		rev = domain.Revision{
			RevNo:             revNo,
			IRNo:              revNo,
			UserRevNumber:     revText,
			RevText:           revText,
			RevNumber:         revText,
			DisplayNumber:     prefix + "-" + revText,
			RevNote:           in.RevNote,
			Desc:              desc,
			Department:        dept,
			User:              user,
			Project:           project,
			IsRevision:        true,
			RevisionType:      revisionType,
			ParentRequestType: parentKind,
			RequestType:       parentKind,
			IsCPRRevision:     revisionType == identifier.RevisionCPR,
			IsIRRevision:      revisionType == identifier.RevisionIR,
			Counter:           n,
			CounterType:       counter.CounterType(revisionType),
			Version:           "2.0",
			IsActive:          true,
			Status:            domain.StatusPending,
			SentAt:            now,
			CreatedAt:         now,
			UpdatedAt:         now,
			CreatedBy:         user,
		}
		return tx.Set(ctx, store.Revisions, revNo, rev)
	})
	if err != nil {
		return nil, wrap("create revision", err)
	}
	return &rev, nil
}

// MarkRequestDone flags an active request as completed and records who
// downloaded it.
func (s *Service) MarkRequestDone(ctx context.Context, irNo, downloadedBy string) error {
	irNo = strings.TrimSpace(irNo)
	if irNo == "" {
		return validationf("IR number is required")
	}

	now := s.clock.Stamp()
	err := s.store.Update(ctx, store.Requests, irNo, map[string]any{
		"isDone":       true,
		"completedAt":  now,
		"downloadedBy": downloadedBy,
		"downloadedAt": now,
		"updatedAt":    now,
		"status":       domain.StatusCompleted,
	})
	return wrap("mark request done", err)
}

// MarkRevisionDone flags an active revision as completed.
func (s *Service) MarkRevisionDone(ctx context.Context, revNo string) error {
	revNo = strings.TrimSpace(revNo)
	if revNo == "" {
		return validationf("revision number is required")
	}

	now := s.clock.Stamp()
	err := s.store.Update(ctx, store.Revisions, revNo, map[string]any{
		"isDone":      true,
		"completedAt": now,
		"updatedAt":   now,
		"status":      domain.StatusCompleted,
	})
	return wrap("mark revision done", err)
}

// RenumberInput names the record to renumber and the serial it should get.
type RenumberInput struct {
	IRNo        string
	NewSerial   int
	Project     string
	Department  string
	RequestType string
}

// Renumber moves an active request to the identifier generated from the
// target serial, advancing the project counter to at least that serial.
// The whole move is one transaction; a target identifier that already
// exists is rejected rather than overwritten.
func (s *Service) Renumber(ctx context.Context, in RenumberInput) (string, error) {
	oldNo := strings.TrimSpace(in.IRNo)
	if oldNo == "" || in.NewSerial < 1 {
		return "", validationf("invalid IR number or serial")
	}

	kind := strings.ToUpper(strings.TrimSpace(in.RequestType))
	if kind == "" {
		kind = identifier.KindIR
	}
	deptCode := department.CodeFor(in.Department)
	if kind == identifier.KindCPR && deptCode != department.CodeStruct {
		return "", validationf("CPR requests are only available for Civil/Structure department")
	}

	newNo := identifier.ForRequest(in.Project, deptCode, in.NewSerial, kind)

	err := s.store.Transact(ctx, func(tx store.Ops) error {
		var old domain.Request
		if err := tx.Get(ctx, store.Requests, oldNo, &old); err != nil {
			return err
		}

		if newNo != oldNo {
			var clash domain.Request
			err := tx.Get(ctx, store.Requests, newNo, &clash)
			if err == nil {
				return validationf("IR %s already exists", newNo)
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}

		scope := counter.ScopeFor(kind, deptCode)
		if err := s.counters.AdvanceToTx(ctx, tx, in.Project, scope, in.NewSerial); err != nil {
			return err
		}

		old.OldIRNo = oldNo
		old.IRNo = newNo
		old.UpdatedAt = s.clock.Stamp()
		if err := tx.Set(ctx, store.Requests, newNo, old); err != nil {
			return err
		}
		if newNo != oldNo {
			return tx.Delete(ctx, store.Requests, oldNo)
		}
		return nil
	})
	if err != nil {
		return "", wrap("renumber request", err)
	}
	return newNo, nil
}

// ListRequests returns every active request.
func (s *Service) ListRequests(ctx context.Context) ([]domain.Request, error) {
	return decodeRequests(s.store.StreamAll(ctx, store.Requests))
}

// ListRevisions returns every active revision.
func (s *Service) ListRevisions(ctx context.Context) ([]domain.Revision, error) {
	return decodeRevisions(s.store.StreamAll(ctx, store.Revisions))
}

// ListProjects returns all project documents keyed by name.
func (s *Service) ListProjects(ctx context.Context) (map[string]domain.Project, error) {
	docs, err := s.store.StreamAll(ctx, store.Projects)
	if err != nil {
		return nil, wrap("list projects", err)
	}
	projects := make(map[string]domain.Project, len(docs))
	for _, d := range docs {
		var p domain.Project
		if err := d.Decode(&p); err != nil {
			return nil, wrap("decode project", err)
		}
		projects[d.ID] = p
	}
	return projects, nil
}

// ByUserAndDept returns the active requests and revisions belonging to a
// user within a department.
func (s *Service) ByUserAndDept(ctx context.Context, user, dept string) ([]domain.Request, []domain.Revision, error) {
	if user == "" || dept == "" {
		return nil, nil, validationf("user and department are required")
	}
	filters := map[string]any{"user": user, "department": dept}

	irs, err := decodeRequests(s.store.Query(ctx, store.Requests, filters))
	if err != nil {
		return nil, nil, err
	}
	revs, err := decodeRevisions(s.store.Query(ctx, store.Revisions, filters))
	if err != nil {
		return nil, nil, err
	}
	return irs, revs, nil
}

func decodeRequests(docs []store.Doc, err error) ([]domain.Request, error) {
	if err != nil {
		return nil, wrap("list requests", err)
	}
	out := make([]domain.Request, 0, len(docs))
	for _, d := range docs {
		var r domain.Request
		if err := d.Decode(&r); err != nil {
			return nil, wrap("decode request", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeRevisions(docs []store.Doc, err error) ([]domain.Revision, error) {
	if err != nil {
		return nil, wrap("list revisions", err)
	}
	out := make([]domain.Revision, 0, len(docs))
	for _, d := range docs {
		var r domain.Revision
		if err := d.Decode(&r); err != nil {
			return nil, wrap("decode revision", err)
		}
		out = append(out, r)
	}
	return out, nil
}
