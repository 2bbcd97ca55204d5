// Package audit records who did what to which record. Events go to slog
// synchronously and to the audit_log collection asynchronously.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contech-dc/contrack/internal/store"
	"github.com/contech-dc/contrack/internal/timefmt"
)

// Logger provides structured audit logging with dual-write to slog (sync)
// and the document store (async).
type Logger struct {
	store  store.Store
	clock  *timefmt.Clock
	ch     chan Entry
	wg     sync.WaitGroup
	mu     sync.Mutex // guards closed + ch send atomically
	closed bool
	once   sync.Once
}

// Entry is one audit_log document.
type Entry struct {
	Actor  string         `json:"actor"`
	Action string         `json:"action"`
	Target string         `json:"target"`
	Detail map[string]any `json:"detail,omitempty"`
	At     string         `json:"at"`
}

// New creates a Logger. The buffer parameter controls the async channel
// size.
func New(st store.Store, clock *timefmt.Clock, buffer int) *Logger {
	if buffer <= 0 {
		buffer = 256
	}
	l := &Logger{
		store: st,
		clock: clock,
		ch:    make(chan Entry, buffer),
	}
	l.wg.Add(1)
	go l.drain()
	return l
}

// Log records an audit event.
// actor: who performed the action (a role or username).
// action: what was done (e.g. "ir.archive", "rev.delete").
// target: the identifier acted on.
// detail: additional metadata (nil is fine).
func (l *Logger) Log(actor, action, target string, detail map[string]any) {
	attrs := []any{
		slog.String("actor", actor),
		slog.String("action", action),
		slog.String("target", target),
	}
	if detail != nil {
		attrs = append(attrs, slog.Any("detail", detail))
	}
	slog.Info("audit", attrs...)

	e := Entry{
		Actor:  actor,
		Action: action,
		Target: target,
		Detail: detail,
		At:     l.clock.Stamp(),
	}

	// Mutex keeps the closed check and the channel send atomic, so Close
	// can't race a send onto a closed channel. A full buffer drops the
	// store write; slog already has the event.
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.ch <- e:
	default:
		slog.Warn("audit buffer full, dropping store write", "action", action, "target", target)
	}
}

func (l *Logger) drain() {
	defer l.wg.Done()
	for e := range l.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.store.Set(ctx, store.AuditLog, uuid.NewString(), e); err != nil {
			slog.Error("audit store write failed", "action", e.Action, "error", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the buffer to drain.
func (l *Logger) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.ch)
		l.mu.Unlock()
		l.wg.Wait()
	})
}
