package request

import (
	"context"
	"strings"

	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/store"
)

// Collections routes archive, unarchive and delete operations to the
// collection pair for the record kind.
func Collections(isRevision bool) (active, archived string) {
	if isRevision {
		return store.Revisions, store.ArchivedRevisions
	}
	return store.Requests, store.ArchivedRequests
}

// Archive moves a record from its active collection into the archive,
// stamping who archived it. The copy and delete run in one transaction so
// the identifier never exists in both collections.
func (s *Service) Archive(ctx context.Context, id string, isRevision bool, role string) (string, error) {
	id = strings.TrimSpace(id)
	role = strings.ToLower(strings.TrimSpace(role))
	if id == "" || role == "" {
		return "", validationf("IR number and role are required")
	}

	active, archived := Collections(isRevision)
	archivedAt := s.clock.Stamp()

	err := s.store.Transact(ctx, func(tx store.Ops) error {
		if isRevision {
			var rev domain.Revision
			if err := tx.Get(ctx, active, id, &rev); err != nil {
				return err
			}
			rev.ArchiveMeta = s.archiveMeta(role, archivedAt)
			rev.Status = domain.StatusArchived
			rev.UpdatedAt = archivedAt
			if err := tx.Set(ctx, archived, id, rev); err != nil {
				return err
			}
			return tx.Delete(ctx, active, id)
		}

		var req domain.Request
		if err := tx.Get(ctx, active, id, &req); err != nil {
			return err
		}
		req.ArchiveMeta = s.archiveMeta(role, archivedAt)
		req.Status = domain.StatusArchived
		req.UpdatedAt = archivedAt
		if err := tx.Set(ctx, archived, id, req); err != nil {
			return err
		}
		return tx.Delete(ctx, active, id)
	})
	if err != nil {
		return "", wrap("archive", err)
	}
	return archivedAt, nil
}

func (s *Service) archiveMeta(role, archivedAt string) domain.ArchiveMeta {
	return domain.ArchiveMeta{
		IsArchived:         true,
		ArchivedAt:         archivedAt,
		ArchivedBy:         role,
		ArchivedByDC:       role == domain.RoleDC,
		ArchivedByEngineer: role != domain.RoleDC,
	}
}

// Unarchive moves a record back into its active collection, dropping the
// archive metadata and re-deriving the status from the completion flag.
// Returns the restored record.
func (s *Service) Unarchive(ctx context.Context, id string, isRevision bool) (any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, validationf("IR number is required")
	}

	active, archived := Collections(isRevision)
	now := s.clock.Stamp()

	var restored any
	err := s.store.Transact(ctx, func(tx store.Ops) error {
		if isRevision {
			var rev domain.Revision
			if err := tx.Get(ctx, archived, id, &rev); err != nil {
				return err
			}
			rev.ArchiveMeta = domain.ArchiveMeta{}
			rev.Status = statusFromDone(rev.IsDone)
			rev.UpdatedAt = now
			restored = rev
			if err := tx.Set(ctx, active, id, rev); err != nil {
				return err
			}
			return tx.Delete(ctx, archived, id)
		}

		var req domain.Request
		if err := tx.Get(ctx, archived, id, &req); err != nil {
			return err
		}
		req.ArchiveMeta = domain.ArchiveMeta{}
		req.Status = statusFromDone(req.IsDone)
		req.UpdatedAt = now
		restored = req
		if err := tx.Set(ctx, active, id, req); err != nil {
			return err
		}
		return tx.Delete(ctx, archived, id)
	})
	if err != nil {
		return nil, wrap("unarchive", err)
	}
	return restored, nil
}

func statusFromDone(done bool) string {
	if done {
		return domain.StatusCompleted
	}
	return domain.StatusPending
}

// DeletedFrom values reported by Delete.
const (
	DeletedFromArchive = "archive"
	DeletedFromActive  = "active"
)

// Delete removes a record wherever it currently lives. Callers don't track
// which collection holds a record, so the archive is probed first, then
// the active collection.
func (s *Service) Delete(ctx context.Context, id string, isRevision bool) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", validationf("IR number is required")
	}

	active, archived := Collections(isRevision)

	var deletedFrom string
	err := s.store.Transact(ctx, func(tx store.Ops) error {
		var probe map[string]any
		if err := tx.Get(ctx, archived, id, &probe); err == nil {
			deletedFrom = DeletedFromArchive
			return tx.Delete(ctx, archived, id)
		}
		if err := tx.Get(ctx, active, id, &probe); err == nil {
			deletedFrom = DeletedFromActive
			return tx.Delete(ctx, active, id)
		}
		return ErrNotFound
	})
	if err != nil {
		return "", wrap("delete", err)
	}
	return deletedFrom, nil
}

// ArchivedByDC returns the archived requests and revisions tagged as
// archived by the document controller.
func (s *Service) ArchivedByDC(ctx context.Context) ([]domain.Request, []domain.Revision, error) {
	filters := map[string]any{"archivedByDC": true}

	irs, err := decodeRequests(s.store.Query(ctx, store.ArchivedRequests, filters))
	if err != nil {
		return nil, nil, err
	}
	revs, err := decodeRevisions(s.store.Query(ctx, store.ArchivedRevisions, filters))
	if err != nil {
		return nil, nil, err
	}
	return irs, revs, nil
}

// ArchivedByEngineer returns engineer-archived records, optionally limited
// to one user.
func (s *Service) ArchivedByEngineer(ctx context.Context, user string) ([]domain.Request, []domain.Revision, error) {
	filters := map[string]any{"archivedByEngineer": true}

	irs, err := decodeRequests(s.store.Query(ctx, store.ArchivedRequests, filters))
	if err != nil {
		return nil, nil, err
	}
	revs, err := decodeRevisions(s.store.Query(ctx, store.ArchivedRevisions, filters))
	if err != nil {
		return nil, nil, err
	}

	if user != "" {
		irs = filterRequestsByUser(irs, user)
		revs = filterRevisionsByUser(revs, user)
	}
	return irs, revs, nil
}

func filterRequestsByUser(irs []domain.Request, user string) []domain.Request {
	out := irs[:0]
	for _, r := range irs {
		if r.User == user {
			out = append(out, r)
		}
	}
	return out
}

func filterRevisionsByUser(revs []domain.Revision, user string) []domain.Revision {
	out := revs[:0]
	for _, r := range revs {
		if r.User == user {
			out = append(out, r)
		}
	}
	return out
}
