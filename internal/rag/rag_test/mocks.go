package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/docqa/internal/rag/index"
)

// MockIndexStore implements rag.IndexStore
type MockIndexStore struct {
	OnSave func(ctx context.Context, id string, folder *index.FolderIndex) error

	mu      sync.Mutex
	indexes map[string]*index.FolderIndex
}

func NewMockIndexStore() *MockIndexStore {
	return &MockIndexStore{indexes: map[string]*index.FolderIndex{}}
}

func (m *MockIndexStore) SaveIndex(ctx context.Context, id string, folder *index.FolderIndex) error {
	if m.OnSave != nil {
		if err := m.OnSave(ctx, id, folder); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes[id] = folder
	return nil
}

func (m *MockIndexStore) GetIndex(_ context.Context, id string) (*index.FolderIndex, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.indexes[id]
	return f, ok
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func (m *MockLLM) Name() string { return "mock" }

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response\nSOURCES: ", nil
}
