package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contech-dc/contrack/internal/counter"
	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/identifier"
	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

func newService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	m := store.NewMemory()
	clock := timefmt.NewFixed(time.Date(2025, 3, 17, 12, 41, 0, 0, time.UTC))
	return NewService(m, counter.New(m, clock), clock), m
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, serial, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project:    "Badya North",
		Department: "Civil",
		User:       "ahmed",
		Desc:       "Column reinforcement",
		Location:   "Badya North-Main",
		Floor:      "1st Floor",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, serial)
	assert.Equal(t, "BADYA-CON-BADYA-NORTH-IR-ST-001", ir.IRNo)
	assert.Equal(t, identifier.KindIR, ir.RequestType)
	assert.Equal(t, department.CodeStruct, ir.DeptAbbr)
	assert.Equal(t, domain.StatusPending, ir.Status)
	assert.False(t, ir.IsDone)
	assert.NotEmpty(t, ir.CreatedAt)

	// The record is stored under its identifier.
	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, ir.IRNo, &stored))
	assert.Equal(t, "ahmed", stored.User)

	// The next request in the same scope takes the next serial.
	ir2, serial2, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project:    "Badya North",
		Department: "Civil",
		User:       "ahmed",
		Desc:       "Slab pour prep",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, serial2)
	assert.Equal(t, "BADYA-CON-BADYA-NORTH-IR-ST-002", ir2.IRNo)
}

func TestCreateRequestValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.CreateRequest(ctx, CreateRequestInput{Project: "P5"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "missing required fields")
	assert.Contains(t, err.Error(), "department")
	assert.Contains(t, err.Error(), "user")
	assert.Contains(t, err.Error(), "desc")
}

func TestCreateCPRRequiresStructural(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project:     "P5",
		Department:  "Architectural",
		User:        "ahmed",
		Desc:        "Pour",
		RequestType: identifier.KindCPR,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	cpr, serial, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project:        "P5",
		Department:     "Civil",
		User:           "ahmed",
		Desc:           "Raft pour",
		RequestType:    identifier.KindCPR,
		ConcreteGrade:  "C40",
		PouringElement: "Raft",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, serial)
	assert.Equal(t, "BADYA-CON-P5-CPR-001", cpr.IRNo)
	assert.Equal(t, "C40", cpr.ConcreteGrade)
}

func TestCPRCountsSeparatelyFromIR(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-IR-ST-001", ir.IRNo)

	cpr, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
		RequestType: identifier.KindCPR,
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-CPR-001", cpr.IRNo)
}

func TestCreateRevision(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	rev, err := svc.CreateRevision(ctx, CreateRevisionInput{
		Project:    "P5",
		RevText:    "104",
		RevNote:    "Updated rebar detail",
		Department: "Civil",
		User:       "ahmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "REV-P5-IRREV-001", rev.RevNo)
	assert.Equal(t, rev.RevNo, rev.IRNo)
	assert.Equal(t, "REV-IR-104", rev.DisplayNumber)
	assert.Equal(t, "REV-IR: 104 - Updated rebar detail", rev.Desc)
	assert.True(t, rev.IsRevision)
	assert.True(t, rev.IsIRRevision)
	assert.False(t, rev.IsCPRRevision)
	assert.Equal(t, 1, rev.Counter)

	cprRev, err := svc.CreateRevision(ctx, CreateRevisionInput{
		Project:      "P5",
		RevText:      "7",
		RevisionType: identifier.RevisionCPR,
		Department:   "Civil",
		User:         "ahmed",
	})
	require.NoError(t, err)
	assert.Equal(t, "REV-P5-CPRREV-001", cprRev.RevNo)
	assert.True(t, cprRev.IsCPRRevision)
}

func TestCreateRevisionValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.CreateRevision(ctx, CreateRevisionInput{Project: "P5"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = svc.CreateRevision(ctx, CreateRevisionInput{Project: "P5", RevText: "1"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestMarkRequestDone(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRequestDone(ctx, ir.IRNo, "dc-user"))

	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, ir.IRNo, &stored))
	assert.True(t, stored.IsDone)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, "dc-user", stored.DownloadedBy)
	assert.NotEmpty(t, stored.CompletedAt)

	// Untouched fields survive the partial update.
	assert.Equal(t, "u", stored.User)

	err = svc.MarkRequestDone(ctx, "BADYA-CON-P5-IR-ST-999", "dc-user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenumber(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	require.Equal(t, "BADYA-CON-P5-IR-ST-001", ir.IRNo)

	newNo, err := svc.Renumber(ctx, RenumberInput{
		IRNo:       ir.IRNo,
		NewSerial:  5,
		Project:    "P5",
		Department: "Civil",
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-IR-ST-005", newNo)

	// The record moved: old id gone, new id carries the backlink.
	var stored domain.Request
	assert.ErrorIs(t, m.Get(ctx, store.Requests, ir.IRNo, &stored), store.ErrNotFound)
	require.NoError(t, m.Get(ctx, store.Requests, newNo, &stored))
	assert.Equal(t, ir.IRNo, stored.OldIRNo)

	// The counter was floored at the new serial.
	next, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-IR-ST-006", next.IRNo)
}

func TestRenumberTargetClashRejected(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	first, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	second, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	_, err = svc.Renumber(ctx, RenumberInput{
		IRNo:       first.IRNo,
		NewSerial:  2,
		Project:    "P5",
		Department: "Civil",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Both records are still where they were.
	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, first.IRNo, &stored))
	require.NoError(t, m.Get(ctx, store.Requests, second.IRNo, &stored))
}

func TestRenumberCPRRequiresStructural(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Renumber(ctx, RenumberInput{
		IRNo:        "BADYA-CON-P5-CPR-001",
		NewSerial:   3,
		Project:     "P5",
		Department:  "Architectural",
		RequestType: identifier.KindCPR,
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestArchiveAndUnarchive(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	archivedAt, err := svc.Archive(ctx, ir.IRNo, false, "dc")
	require.NoError(t, err)
	assert.NotEmpty(t, archivedAt)

	// Moved, not copied.
	var stored domain.Request
	assert.ErrorIs(t, m.Get(ctx, store.Requests, ir.IRNo, &stored), store.ErrNotFound)
	require.NoError(t, m.Get(ctx, store.ArchivedRequests, ir.IRNo, &stored))
	assert.True(t, stored.IsArchived)
	assert.True(t, stored.ArchivedByDC)
	assert.False(t, stored.ArchivedByEngineer)
	assert.Equal(t, domain.StatusArchived, stored.Status)

	restored, err := svc.Unarchive(ctx, ir.IRNo, false)
	require.NoError(t, err)
	require.NotNil(t, restored)

	assert.ErrorIs(t, m.Get(ctx, store.ArchivedRequests, ir.IRNo, &stored), store.ErrNotFound)
	require.NoError(t, m.Get(ctx, store.Requests, ir.IRNo, &stored))
	assert.False(t, stored.IsArchived)
	assert.False(t, stored.ArchivedByDC)
	assert.Equal(t, domain.StatusPending, stored.Status)
}

func TestArchiveByEngineerStamp(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, ir.IRNo, false, "engineer")
	require.NoError(t, err)

	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.ArchivedRequests, ir.IRNo, &stored))
	assert.False(t, stored.ArchivedByDC)
	assert.True(t, stored.ArchivedByEngineer)
	assert.Equal(t, "engineer", stored.ArchivedBy)
}

func TestUnarchiveCompletedStaysCompleted(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	require.NoError(t, svc.MarkRequestDone(ctx, ir.IRNo, "dc"))

	_, err = svc.Archive(ctx, ir.IRNo, false, "dc")
	require.NoError(t, err)
	_, err = svc.Unarchive(ctx, ir.IRNo, false)
	require.NoError(t, err)

	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, ir.IRNo, &stored))
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}

func TestDeleteProbesArchiveFirst(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	// Active record deletes from the active collection.
	deletedFrom, err := svc.Delete(ctx, ir.IRNo, false)
	require.NoError(t, err)
	assert.Equal(t, DeletedFromActive, deletedFrom)

	// A record present only in the archive deletes from there.
	ir2, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, ir2.IRNo, false, "dc")
	require.NoError(t, err)

	deletedFrom, err = svc.Delete(ctx, ir2.IRNo, false)
	require.NoError(t, err)
	assert.Equal(t, DeletedFromArchive, deletedFrom)

	// A stray duplicate in both collections: the archive copy wins, the
	// active copy survives.
	require.NoError(t, m.Set(ctx, store.Requests, "DUP-001", domain.Request{IRNo: "DUP-001"}))
	require.NoError(t, m.Set(ctx, store.ArchivedRequests, "DUP-001", domain.Request{IRNo: "DUP-001"}))

	deletedFrom, err = svc.Delete(ctx, "DUP-001", false)
	require.NoError(t, err)
	assert.Equal(t, DeletedFromArchive, deletedFrom)

	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, "DUP-001", &stored))

	// Missing everywhere reports not found.
	_, err = svc.Delete(ctx, "NOPE-001", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchivedListings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	ir1, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "ahmed", Desc: "d",
	})
	require.NoError(t, err)
	ir2, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "omar", Desc: "d",
	})
	require.NoError(t, err)
	rev, err := svc.CreateRevision(ctx, CreateRevisionInput{
		Project: "P5", RevText: "1", Department: "Civil", User: "ahmed",
	})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, ir1.IRNo, false, "dc")
	require.NoError(t, err)
	_, err = svc.Archive(ctx, ir2.IRNo, false, "engineer")
	require.NoError(t, err)
	_, err = svc.Archive(ctx, rev.RevNo, true, "engineer")
	require.NoError(t, err)

	irs, revs, err := svc.ArchivedByDC(ctx)
	require.NoError(t, err)
	require.Len(t, irs, 1)
	assert.Equal(t, ir1.IRNo, irs[0].IRNo)
	assert.Empty(t, revs)

	irs, revs, err = svc.ArchivedByEngineer(ctx, "")
	require.NoError(t, err)
	assert.Len(t, irs, 1)
	assert.Len(t, revs, 1)

	irs, revs, err = svc.ArchivedByEngineer(ctx, "ahmed")
	require.NoError(t, err)
	assert.Empty(t, irs)
	require.Len(t, revs, 1)
	assert.Equal(t, rev.RevNo, revs[0].RevNo)
}

func TestByUserAndDept(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "ahmed", Desc: "d",
	})
	require.NoError(t, err)
	_, _, err = svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "omar", Desc: "d",
	})
	require.NoError(t, err)

	irs, revs, err := svc.ByUserAndDept(ctx, "ahmed", "Civil")
	require.NoError(t, err)
	require.Len(t, irs, 1)
	assert.Equal(t, "ahmed", irs[0].User)
	assert.Empty(t, revs)

	_, _, err = svc.ByUserAndDept(ctx, "", "Civil")
	assert.True(t, IsValidation(err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.UpsertUser(ctx, UpsertUserInput{
		Username: "Ahmed",
		Fullname: "Ahmed Hassan",
		Role:     "engineer",
		Password: "secret",
	})
	require.NoError(t, err)

	// Username matching is case-insensitive; password is not.
	user, err := svc.Login(ctx, "AHMED", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ahmed", user.Username)
	assert.Empty(t, user.Password)

	_, err = svc.Login(ctx, "ahmed", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.True(t, IsValidation(err))
}

func TestUpsertUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	u, created, err := svc.UpsertUser(ctx, UpsertUserInput{Username: "omar", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ST", u.Department)
	assert.Equal(t, "engineer", u.Role)

	// Update without a password keeps the stored one.
	_, created, err = svc.UpsertUser(ctx, UpsertUserInput{
		Username: "omar", Fullname: "Omar Ali", Department: "ARCH",
	})
	require.NoError(t, err)
	assert.False(t, created)

	logged, err := svc.Login(ctx, "omar", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Omar Ali", logged.Fullname)
	assert.Equal(t, "ARCH", logged.Department)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.UpsertUser(ctx, UpsertUserInput{Username: "omar", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "omar"))
	assert.ErrorIs(t, svc.DeleteUser(ctx, "omar"), ErrNotFound)
}

func TestListUsersStripsPasswords(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.UpsertUser(ctx, UpsertUserInput{Username: "a", Password: "pw"})
	require.NoError(t, err)
	_, _, err = svc.UpsertUser(ctx, UpsertUserInput{Username: "b", Password: "pw"})
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
		assert.NotEmpty(t, u.Username)
	}
}

func TestDescriptions(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	require.NoError(t, m.Set(ctx, store.Descriptions, department.NameCivil, domain.DescriptionSet{
		Base: []string{"Rebar inspection", "Formwork check"},
	}))
	require.NoError(t, m.Set(ctx, store.DescriptionsCPR, department.NameCivil, domain.DescriptionSet{
		Base:     []string{"Raft pour"},
		Elements: []string{"Raft", "Column"},
		Grades:   []string{"C30", "C40"},
	}))

	set, docName, err := svc.Descriptions(ctx, "Structural", identifier.KindIR)
	require.NoError(t, err)
	assert.Equal(t, department.NameCivil, docName)
	assert.Equal(t, []string{"Rebar inspection", "Formwork check"}, set.Base)
	// The stored doc has no floors, so defaults apply.
	assert.Contains(t, set.Floors, "Ground Floor")
	assert.Empty(t, set.Elements)

	// CPR lookups always hit the Civil CPR document.
	set, docName, err = svc.Descriptions(ctx, "Architectural", identifier.KindCPR)
	require.NoError(t, err)
	assert.Equal(t, department.NameCivil, docName)
	assert.Equal(t, []string{"Raft", "Column"}, set.Elements)
	assert.Equal(t, []string{"C30", "C40"}, set.Grades)

	// Missing document reports not found with the consulted key.
	_, docName, err = svc.Descriptions(ctx, "Electrical", identifier.KindIR)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, department.NameElectrical, docName)
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	// No rules, no project: generated defaults.
	locations, typesMap, err := svc.Locations(ctx, "P5")
	require.NoError(t, err)
	assert.Equal(t, []string{"P5-Main", "P5-Service", "P5-Parking"}, locations)
	assert.Empty(t, typesMap)

	// Project locations are used when present.
	require.NoError(t, m.Set(ctx, store.Projects, "P5", domain.Project{
		Name: "P5",
		Locations: []domain.Location{
			{Pattern: "P5-Zone-A", Type: "residential"},
			{Pattern: "P5-Zone-B"},
		},
	}))
	locations, typesMap, err = svc.Locations(ctx, "P5")
	require.NoError(t, err)
	assert.Equal(t, []string{"P5-Zone-A", "P5-Zone-B"}, locations)
	assert.Equal(t, "residential", typesMap["P5-Zone-A"])

	// A location_rules document overrides the project's own list.
	require.NoError(t, m.Set(ctx, store.LocationRules, "P5", domain.LocationRules{
		Rules: []domain.Location{{Pattern: "P5-Override", Type: "infra"}},
	}))
	locations, typesMap, err = svc.Locations(ctx, "P5")
	require.NoError(t, err)
	assert.Equal(t, []string{"P5-Override"}, locations)
	assert.Equal(t, "infra", typesMap["P5-Override"])
}

func TestPrepareWord(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	// Without a user-supplied number a fresh serial is drawn.
	full, short, err := svc.PrepareWord(ctx, WordInput{
		Project:    "P5",
		Department: "Civil",
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-IR-ST-001", full)
	assert.Equal(t, "001", short)

	// A user-supplied number is normalized to the chosen department.
	full, short, err = svc.PrepareWord(ctx, WordInput{
		Project:    "P5",
		Department: "Architectural",
		IRNo:       "BADYA-CON-P5-IR-ST-003",
	})
	require.NoError(t, err)
	assert.Equal(t, "BADYA-CON-P5-IR-ARCH-003", full)
	assert.Equal(t, "003", short)

	_, _, err = svc.PrepareWord(ctx, WordInput{Project: "P5"})
	assert.True(t, IsValidation(err))

	// Downloading against a stored record marks it done.
	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	_, _, err = svc.PrepareWord(ctx, WordInput{
		Project:      "P5",
		Department:   "Civil",
		IRNo:         ir.IRNo,
		DownloadedBy: "dc",
	})
	require.NoError(t, err)

	var stored domain.Request
	require.NoError(t, m.Get(ctx, store.Requests, ir.IRNo, &stored))
	assert.True(t, stored.IsDone)
	assert.Equal(t, "dc", stored.DownloadedBy)
}

func TestPrepareWordRenumbersOnMismatch(t *testing.T) {
	ctx := context.Background()
	svc, m := newService(t)

	ir, _, err := svc.CreateRequest(ctx, CreateRequestInput{
		Project: "P5", Department: "Civil", User: "u", Desc: "d",
	})
	require.NoError(t, err)

	userNo := "BADYA-CON-P5-IR-ST-009"
	full, _, err := svc.PrepareWord(ctx, WordInput{
		Project:      "P5",
		Department:   "Civil",
		IRNo:         userNo,
		OldIRNo:      ir.IRNo,
		DownloadedBy: "dc",
	})
	require.NoError(t, err)
	assert.Equal(t, userNo, full)

	// The stored record moved to the user-chosen number.
	var stored domain.Request
	assert.ErrorIs(t, m.Get(ctx, store.Requests, ir.IRNo, &stored), store.ErrNotFound)
	require.NoError(t, m.Get(ctx, store.Requests, userNo, &stored))
	assert.True(t, stored.IsDone)
	assert.Equal(t, ir.IRNo, stored.OldIRNo)
}
