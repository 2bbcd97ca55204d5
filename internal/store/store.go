// Package store is the document database layer. Documents live in named
// collections and are keyed by string id; the Postgres implementation keeps
// every collection in one JSONB table so multi-document operations can run
// inside a single transaction.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names. Kept in one place so the lifecycle service, the
// handlers and the CLI agree on them.
const (
	Users             = "users"
	Projects          = "projects"
	Requests          = "irs"
	ArchivedRequests  = "archive_irs"
	Revisions         = "revs"
	ArchivedRevisions = "archive_revs"
	RevisionCounters  = "rev_counters"
	Descriptions      = "general_descriptions"
	DescriptionsCPR   = "general_descriptions_cpr"
	LocationRules     = "location_rules"
	AuditLog          = "audit_log"
)

// ErrNotFound is returned when a document doesn't exist.
var ErrNotFound = errors.New("document not found")

// Doc is a raw document returned by queries and streams.
type Doc struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into dest.
func (d Doc) Decode(dest any) error { return json.Unmarshal(d.Data, dest) }

// Ops is the set of per-document operations shared by Store and the
// transaction view passed to Transact.
type Ops interface {
	// Get loads the document into dest. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string, dest any) error
	// Set replaces the document, creating it if absent.
	Set(ctx context.Context, collection, id string, doc any) error
	// Merge upserts the given fields into the document without touching
	// the rest of it.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	// Update applies the given fields to an existing document.
	// Returns ErrNotFound when the document is absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	// Delete removes the document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error
}

// Store is the full document store contract.
type Store interface {
	Ops

	// Query returns the documents whose fields equal every filter value.
	Query(ctx context.Context, collection string, filters map[string]any) ([]Doc, error)
	// StreamAll returns every document in the collection.
	StreamAll(ctx context.Context, collection string) ([]Doc, error)
	// Transact runs fn atomically. Reads through the transaction view
	// take row locks where the backend supports them, so the
	// read-modify-write sequences inside fn don't race with each other.
	Transact(ctx context.Context, fn func(tx Ops) error) error
	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error
}
