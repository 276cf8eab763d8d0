// Package store persists named graph documents.
//
// Backends:
//   - memory: in-process map for tests and the development server
//   - file: one JSON file per document under a directory (CLI)
//   - mongo: a MongoDB collection (HTTP service)
//
// A [Document] carries the graph as raw JSON in the [io] format, so the
// store never needs a node registry. Decode it with [io.UnmarshalGraph].
//
//	doc, err := store.NewDocument("rim light", g)
//	if err := s.Save(ctx, doc); err != nil {
//	    return err
//	}
//	loaded, err := s.Load(ctx, doc.ID)
//
// [io]: github.com/matzehuels/shadergraph/pkg/io
// [io.UnmarshalGraph]: github.com/matzehuels/shadergraph/pkg/io.UnmarshalGraph
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/io"
)

// Document is a stored graph.
type Document struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Graph     json.RawMessage `json:"graph,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is the interface for document backends.
type Store interface {
	// Save inserts or replaces doc and stamps UpdatedAt.
	Save(ctx context.Context, doc *Document) error
	// Load returns the document or a NOT_FOUND error.
	Load(ctx context.Context, id uuid.UUID) (*Document, error)
	// List returns all documents without their graph payload, most recently
	// updated first.
	List(ctx context.Context) ([]Document, error)
	// Delete removes the document or returns NOT_FOUND.
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// NewDocument serializes g under a fresh id.
func NewDocument(name string, g *graph.Graph) (*Document, error) {
	data, err := io.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	return &Document{ID: uuid.New(), Name: name, Graph: data}, nil
}

// Decode rebuilds the document's graph through r.
func (d *Document) Decode(r *graph.Registry) (*graph.Graph, error) {
	return io.UnmarshalGraph(d.Graph, r)
}

// ParseID parses a document id.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid document id %q", s)
	}
	return id, nil
}

func notFound(id uuid.UUID) error {
	return errors.New(errors.ErrCodeNotFound, "document %s not found", id)
}

func validate(doc *Document) error {
	if doc == nil || doc.ID == uuid.Nil {
		return errors.New(errors.ErrCodeInvalidInput, "document has no id")
	}
	if !json.Valid(doc.Graph) {
		return errors.New(errors.ErrCodeInvalidFormat, "document %s: graph is not valid JSON", doc.ID)
	}
	return nil
}
