// Package counter hands out the per-project monotonic serial numbers
// behind request and revision identifiers. Request counters live on the
// project document, one entry per scope key; revision counters live in
// their own collection, keyed per (project, revision kind). Every advance
// runs inside a store transaction so concurrent creates can't observe the
// same value.
package counter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/identifier"
	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// ScopeCPR is the counter scope for concrete pouring requests. CPRs count
// separately from the structural department even though they belong to it.
const ScopeCPR = "CPR"

// ScopeFor selects the counter scope for a request kind and department
// code.
func ScopeFor(kind, deptCode string) string {
	if kind == identifier.KindCPR {
		return ScopeCPR
	}
	return deptCode
}

func zeroCounters() map[string]int {
	return map[string]int{
		"ARCH":   0,
		"ST":     0,
		"MECH":   0,
		"ELECT":  0,
		"SURV":   0,
		ScopeCPR: 0,
	}
}

// revisionCounter is the rev_counters document layout.
type revisionCounter struct {
	Counter      int    `json:"counter"`
	Project      string `json:"project"`
	RevisionType string `json:"revision_type"`
	LastUpdated  string `json:"last_updated"`
}

// Counters advances the identifier sequences.
type Counters struct {
	store store.Store
	clock *timefmt.Clock
}

// New returns a Counters over the given store.
func New(st store.Store, clock *timefmt.Clock) *Counters {
	return &Counters{store: st, clock: clock}
}

// Next advances the (project, scope) counter by one and returns the new
// value. The project document is created with zeroed counters on first
// use.
func (c *Counters) Next(ctx context.Context, project, scope string) (int, error) {
	var n int
	err := c.store.Transact(ctx, func(tx store.Ops) error {
		var err error
		n, err = c.NextTx(ctx, tx, project, scope)
		return err
	})
	return n, err
}

// NextTx is Next running inside a caller-owned transaction, so a request
// create can advance the counter and write the record atomically.
func (c *Counters) NextTx(ctx context.Context, tx store.Ops, project, scope string) (int, error) {
	p, err := c.loadOrInit(ctx, tx, project)
	if err != nil {
		return 0, err
	}
	p.Counters[scope]++
	p.UpdatedAt = c.clock.Stamp()
	if err := tx.Set(ctx, store.Projects, project, p); err != nil {
		return 0, err
	}
	return p.Counters[scope], nil
}

// AdvanceTo raises the (project, scope) counter to at least floor. It
// never lowers a counter, so renumbering a request to a larger serial
// can't make later auto-generated identifiers collide with it.
func (c *Counters) AdvanceTo(ctx context.Context, project, scope string, floor int) error {
	return c.store.Transact(ctx, func(tx store.Ops) error {
		return c.AdvanceToTx(ctx, tx, project, scope, floor)
	})
}

// AdvanceToTx is AdvanceTo inside a caller-owned transaction.
func (c *Counters) AdvanceToTx(ctx context.Context, tx store.Ops, project, scope string, floor int) error {
	p, err := c.loadOrInit(ctx, tx, project)
	if err != nil {
		return err
	}
	if p.Counters[scope] >= floor {
		return nil
	}
	p.Counters[scope] = floor
	p.UpdatedAt = c.clock.Stamp()
	return tx.Set(ctx, store.Projects, project, p)
}

// NextRevision advances the (project, revision kind) counter and returns
// the new value. Revision counters are independent of request counters and
// of each other.
func (c *Counters) NextRevision(ctx context.Context, project, revisionKind string) (int, error) {
	var n int
	err := c.store.Transact(ctx, func(tx store.Ops) error {
		var err error
		n, err = c.NextRevisionTx(ctx, tx, project, revisionKind)
		return err
	})
	return n, err
}

// NextRevisionTx is NextRevision inside a caller-owned transaction.
func (c *Counters) NextRevisionTx(ctx context.Context, tx store.Ops, project, revisionKind string) (int, error) {
	id := RevisionCounterID(project, revisionKind)

	var rc revisionCounter
	err := tx.Get(ctx, store.RevisionCounters, id, &rc)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}

	rc.Counter++
	rc.Project = project
	rc.RevisionType = revisionKind
	rc.LastUpdated = c.clock.Stamp()
	if err := tx.Set(ctx, store.RevisionCounters, id, rc); err != nil {
		return 0, err
	}
	return rc.Counter, nil
}

// RevisionCounterID is the rev_counters document key for a (project,
// revision kind) pair.
func RevisionCounterID(project, revisionKind string) string {
	return fmt.Sprintf("%s_%s", project, CounterType(revisionKind))
}

// CounterType names the revision counter namespace, stored on each
// revision record for traceability.
func CounterType(revisionKind string) string {
	return "rev_counter_" + strings.ToLower(revisionKind)
}

func (c *Counters) loadOrInit(ctx context.Context, tx store.Ops, project string) (*domain.Project, error) {
	var p domain.Project
	err := tx.Get(ctx, store.Projects, project, &p)
	if errors.Is(err, store.ErrNotFound) {
		now := c.clock.Stamp()
		p = domain.Project{
			Name:      project,
			Counters:  zeroCounters(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	if p.Counters == nil {
		p.Counters = zeroCounters()
	}
	return &p, nil
}
