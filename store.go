package duoquiz

import (
	"context"
	"fmt"
	"regexp"
)

// Filter is a conjunction of equality predicates on top-level document fields,
// keyed by the field's JSON name.
type Filter map[string]string

// DocumentStore is the document database the service runs on. Documents are
// grouped into named collections and keyed by string ids.
//
// A write that returns nil is visible to every later read. Nothing spans more
// than one document; in particular there are no transactions.
type DocumentStore interface {
	// Get decodes the document into out, or returns ErrNotFound.
	Get(ctx context.Context, collection, id string, out any) error
	// Set creates or fully replaces the document.
	Set(ctx context.Context, collection, id string, doc any) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Find decodes every document matching filter into out, a pointer to a slice.
	Find(ctx context.Context, collection string, filter Filter, out any) error
	// AddToSet atomically appends the values missing from the string array field.
	// Concurrent calls never lose each other's values. Returns ErrNotFound if
	// the document does not exist.
	AddToSet(ctx context.Context, collection, id, field string, values ...string) error
	// SetField replaces one top-level field and leaves the rest of the document
	// untouched. Returns ErrNotFound if the document does not exist.
	SetField(ctx context.Context, collection, id, field string, value any) error
	Close(ctx context.Context) error
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkField(field string) error {
	if !fieldName.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}
	return nil
}
