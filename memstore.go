package duoquiz

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-process DocumentStore. Documents are kept as JSON so reads
// never alias the caller's values. It backs tests and STORE_DRIVER=memory.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string]map[string][]byte)}
}

func (s *MemStore) Get(_ context.Context, collection, id string, out any) error {
	s.mu.RLock()
	body, ok := s.docs[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(body, out)
}

func (s *MemStore) Set(_ context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string][]byte)
	}
	s.docs[collection][id] = body
	return nil
}

func (s *MemStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs[collection], id)
	return nil
}

func (s *MemStore) Find(_ context.Context, collection string, filter Filter, out any) error {
	for field := range filter {
		if err := checkField(field); err != nil {
			return err
		}
	}

	s.mu.RLock()
	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	matched := make([]json.RawMessage, 0)
	for _, id := range ids {
		body := s.docs[collection][id]
		ok, err := matchesFilter(body, filter)
		if err != nil {
			s.mu.RUnlock()
			return err
		}
		if ok {
			matched = append(matched, body)
		}
	}
	s.mu.RUnlock()

	return decodeAll(matched, out)
}

func (s *MemStore) AddToSet(_ context.Context, collection, id, field string, values ...string) error {
	if err := checkField(field); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	body, ok := s.docs[collection][id]
	if !ok {
		return ErrNotFound
	}
	updated, err := addToSetJSON(body, field, values)
	if err != nil {
		return fmt.Errorf("add to %s/%s.%s: %w", collection, id, field, err)
	}
	s.docs[collection][id] = updated
	return nil
}

func (s *MemStore) SetField(_ context.Context, collection, id, field string, value any) error {
	if err := checkField(field); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s.%s: %w", collection, id, field, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	body, ok := s.docs[collection][id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	doc[field] = raw
	updated, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[collection][id] = updated
	return nil
}

func (s *MemStore) Close(context.Context) error { return nil }

// matchesFilter reports whether every filtered field of the JSON document
// holds exactly the wanted string.
func matchesFilter(body []byte, filter Filter) (bool, error) {
	if len(filter) == 0 {
		return true, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return false, err
	}
	for field, want := range filter {
		got, ok := doc[field].(string)
		if !ok || got != want {
			return false, nil
		}
	}
	return true, nil
}

// addToSetJSON appends the values missing from a string array field of a JSON
// document. A missing or null field counts as empty.
func addToSetJSON(body []byte, field string, values []string) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	var set []string
	if raw, ok := doc[field]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, fmt.Errorf("field is not a string array: %w", err)
		}
	}
	present := make(map[string]bool, len(set))
	for _, v := range set {
		present[v] = true
	}
	for _, v := range values {
		if !present[v] {
			set = append(set, v)
			present[v] = true
		}
	}
	if set == nil {
		set = []string{}
	}
	raw, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}
	doc[field] = raw
	return json.Marshal(doc)
}

// decodeAll decodes a list of JSON documents into out, a pointer to a slice
func decodeAll(docs []json.RawMessage, out any) error {
	body, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
