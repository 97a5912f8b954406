package internal

import (
	"context"
)

// Record is a single document: its id plus the stored fields.
type Record struct {
	ID   string
	Data map[string]any
}

// Text returns the named field as a string, or "" when missing or not a string.
func (r Record) Text(field string) string {
	s, _ := r.Data[field].(string)
	return s
}

// Bool returns the named field as a bool.
func (r Record) Bool(field string) bool {
	b, _ := r.Data[field].(bool)
	return b
}

// Store abstracts Firestore vs in-memory document stores.
type Store interface {
	FetchAll(ctx context.Context, collection string) ([]Record, error)
	WhereEqual(ctx context.Context, collection, field string, value any) ([]Record, error)
	// Get returns ok=false if the document does not exist.
	Get(ctx context.Context, collection, id string) (Record, bool, error)
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)
	Delete(ctx context.Context, collection, id string) error
}
