package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/jsontree/pkg/jsondoc"
)

func sampleValue(t *testing.T) *jsondoc.Value {
	t.Helper()
	v, err := jsondoc.Parse([]byte(`{"zeta":1,"alpha":[true,null]}`))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("a.json", sampleValue(t), time.Hour)

	if len(doc.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", doc.ID)
	}
	if doc.Body != `{"zeta":1,"alpha":[true,null]}` {
		t.Errorf("Body = %s", doc.Body)
	}
	if doc.Size != len(doc.Body) {
		t.Errorf("Size = %d, want %d", doc.Size, len(doc.Body))
	}
	if doc.ExpiresAt.Sub(doc.CreatedAt) != time.Hour {
		t.Errorf("ExpiresAt - CreatedAt = %v", doc.ExpiresAt.Sub(doc.CreatedAt))
	}

	v, err := doc.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v.Members()[0].Key != "zeta" {
		t.Error("member order lost")
	}

	if !NewDocument("", sampleValue(t), 0).ExpiresAt.IsZero() {
		t.Error("zero ttl should not expire")
	}
	if NewDocument("", sampleValue(t), 0).ID == doc.ID {
		t.Error("IDs should be unique")
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	doc := NewDocument("a.json", sampleValue(t), time.Hour)
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Body != doc.Body || got.Name != "a.json" {
		t.Errorf("Get = %+v", got)
	}

	got.Body = "mutated"
	again, _ := s.Get(ctx, doc.ID)
	if again.Body != doc.Body {
		t.Error("Get returned shared state")
	}

	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, doc.ID); err != nil {
		t.Errorf("Delete missing = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	short := NewDocument("", sampleValue(t), time.Minute)
	forever := NewDocument("", sampleValue(t), 0)
	s.Put(ctx, short)
	s.Put(ctx, forever)

	now = now.Add(time.Hour)
	if n := s.Cleanup(ctx); n != 1 {
		t.Errorf("Cleanup removed %d, want 1", n)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if _, err := s.Get(ctx, short.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get expired = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, forever.ID); err != nil {
		t.Errorf("Get forever = %v", err)
	}
}

func TestMemoryStoreGetExpiredDeletes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	doc := NewDocument("", sampleValue(t), time.Second)
	s.Put(ctx, doc)
	now = now.Add(time.Minute)

	if _, err := s.Get(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

// Runs against a real server when JSONTREE_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("JSONTREE_MONGO_URI")
	if uri == "" {
		t.Skip("JSONTREE_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "jsontree_test"})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer s.Close(ctx)

	doc := NewDocument("m.json", sampleValue(t), time.Hour)
	if err := s.Put(ctx, doc); err != nil {
		t.Fatalf("Put: %v", err)
	}
	defer s.Delete(ctx, doc.ID)

	got, err := s.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Body != doc.Body {
		t.Errorf("Body = %s, want %s", got.Body, doc.Body)
	}

	if _, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}
