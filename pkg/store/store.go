// Package store persists uploaded JSON documents so they can be laid out and
// queried again by ID.
//
// Two backends implement [Store]:
//   - [MemoryStore]: process-local storage for development and tests
//   - [MongoStore]: MongoDB collection for multi-instance deployments
//
// Documents are stored as compact JSON text, which keeps object member order
// intact across backends. IDs are random UUIDs.
//
//	doc, err := store.NewDocument("orders.json", value, store.DefaultTTL)
//	if err := s.Put(ctx, doc); err != nil { ... }
//	doc, err = s.Get(ctx, doc.ID)
//	if errors.Is(err, store.ErrNotFound) { ... }
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jsontree/pkg/jsondoc"
)

// DefaultTTL is how long uploaded documents are kept.
const DefaultTTL = 24 * time.Hour

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist or has expired.
	ErrNotFound = errors.New("document not found")
)

// Document is a stored JSON document.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Body      string    `json:"-" bson:"body"`
	Size      int       `json:"size" bson:"size"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// NewDocument wraps v in a Document with a fresh ID. A zero ttl never expires.
func NewDocument(name string, v *jsondoc.Value, ttl time.Duration) *Document {
	body := v.String()
	now := time.Now().UTC()
	d := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Body:      body,
		Size:      len(body),
		CreatedAt: now,
	}
	if ttl > 0 {
		d.ExpiresAt = now.Add(ttl)
	}
	return d
}

// Value decodes the stored body.
func (d *Document) Value() (*jsondoc.Value, error) {
	return jsondoc.Parse([]byte(d.Body))
}

// IsExpired reports whether the document has passed its expiry at t.
func (d *Document) IsExpired(t time.Time) bool {
	return !d.ExpiresAt.IsZero() && t.After(d.ExpiresAt)
}

// Store is the interface for document storage backends.
type Store interface {
	// Put stores a document, replacing any document with the same ID.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by ID. Missing and expired documents
	// return ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
