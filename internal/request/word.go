package request

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contech-dc/contrack/internal/counter"
	"github.com/contech-dc/contrack/internal/department"
	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/identifier"
	"github.com/contech-dc/contrack/internal/store"
)

// WordInput is the caller input for a Word document download.
type WordInput struct {
	Project        string
	Department     string
	RequestType    string
	Desc           string
	IRNo           string
	OldIRNo        string
	DownloadedBy   string
	ConcreteGrade  string
	PouringElement string
	Floor          string
}

// PrepareWord resolves the identifier a Word download should carry. When
// the caller supplies a number it is normalized (department segment fixed
// to match the chosen department); otherwise a fresh serial is drawn from
// the project counter. Completion and renumber side effects on the stored
// record are best-effort: a failure there is logged but never blocks the
// download, matching how the download path has always behaved.
func (s *Service) PrepareWord(ctx context.Context, in WordInput) (full, short string, err error) {
	project := strings.TrimSpace(in.Project)
	dept := strings.TrimSpace(in.Department)
	if project == "" || dept == "" {
		return "", "", validationf("project and department are required")
	}

	kind := strings.ToUpper(strings.TrimSpace(in.RequestType))
	if kind == "" {
		kind = identifier.KindIR
	}
	deptCode := department.CodeFor(dept)

	userIRNo := strings.TrimSpace(in.IRNo)
	if userIRNo != "" {
		full = identifier.WithDept(userIRNo, deptCode)
		short = identifier.Serial(userIRNo)
	} else {
		txErr := s.store.Transact(ctx, func(tx store.Ops) error {
			n, err := s.counters.NextTx(ctx, tx, project, counter.ScopeFor(kind, deptCode))
			if err != nil {
				return err
			}
			short = fmt.Sprintf("%03d", n)
			full = identifier.ForRequest(project, deptCode, n, kind)
			return nil
		})
		if txErr != nil {
			return "", "", wrap("assign word serial", txErr)
		}
	}

	s.applyWordSideEffects(ctx, userIRNo, strings.TrimSpace(in.OldIRNo), in.DownloadedBy)
	return full, short, nil
}

// applyWordSideEffects marks the downloaded record as done, renumbering it
// first when the caller supplied a number different from the stored one.
func (s *Service) applyWordSideEffects(ctx context.Context, userIRNo, oldIRNo, downloadedBy string) {
	target := oldIRNo
	if target == "" {
		target = userIRNo
	}
	if target == "" {
		return
	}

	now := s.clock.Stamp()
	doneFields := map[string]any{
		"isDone":       true,
		"downloadedBy": downloadedBy,
		"downloadedAt": now,
		"completedAt":  now,
		"updatedAt":    now,
		"status":       domain.StatusCompleted,
	}

	err := s.store.Transact(ctx, func(tx store.Ops) error {
		var req domain.Request
		if err := tx.Get(ctx, store.Requests, target, &req); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}

		if userIRNo != "" && userIRNo != target {
			req.IsDone = true
			req.DownloadedBy = downloadedBy
			req.DownloadedAt = now
			req.CompletedAt = now
			req.UpdatedAt = now
			req.Status = domain.StatusCompleted
			req.OldIRNo = target
			req.IRNo = userIRNo
			if err := tx.Set(ctx, store.Requests, userIRNo, req); err != nil {
				return err
			}
			return tx.Delete(ctx, store.Requests, target)
		}
		return tx.Update(ctx, store.Requests, target, doneFields)
	})
	if err != nil {
		slog.Warn("word download: record update failed", "irNo", target, "error", err)
	}
}
