package handlers

import (
	"CafeBackend/store"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

type mockStore struct {
	m         sync.RWMutex
	docs      map[string]json.RawMessage
	err       error
	writeErr  map[string]error
	deleteErr map[string]error
	keySeq    int
	deleted   []string
}

func newMockStore() *mockStore {
	return &mockStore{docs: make(map[string]json.RawMessage)}
}

func (s *mockStore) put(path string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	s.docs[path] = raw
}

func (s *mockStore) Read(_ context.Context, path string) (json.RawMessage, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	raw, ok := s.docs[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	return raw, nil
}

func (s *mockStore) Write(_ context.Context, path string, value any) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	if err, ok := s.writeErr[path]; ok {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.docs[path] = raw
	return nil
}

func (s *mockStore) Delete(_ context.Context, path string) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	if err, ok := s.deleteErr[path]; ok {
		return err
	}
	delete(s.docs, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *mockStore) ReadChildren(_ context.Context, parent string) (map[string]json.RawMessage, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	prefix := parent + "/"
	children := make(map[string]json.RawMessage)
	for path, raw := range s.docs {
		if strings.HasPrefix(path, prefix) {
			children[strings.TrimPrefix(path, prefix)] = raw
		}
	}
	return children, nil
}

func (s *mockStore) Subscribe(_ context.Context, path string) (<-chan json.RawMessage, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	updates := make(chan json.RawMessage, 1)
	raw, ok := s.docs[path]
	if !ok {
		raw = json.RawMessage("null")
	}
	updates <- raw
	close(updates)
	return updates, nil
}

func (s *mockStore) GenerateKey(string) string {
	s.m.Lock()
	defer s.m.Unlock()
	s.keySeq++
	return fmt.Sprintf("key-%d", s.keySeq)
}
