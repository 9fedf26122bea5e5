package index

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/pkg/logger_i"
)

const DefaultName = "default"

var logger = logger_i.NewLogger("Folder Index")

// FolderIndex is the searchable result of indexing a set of files. It is not
// modified after EmbedFiles returns.
type FolderIndex struct {
	Name  string
	Files []*commonModels.File
	Index vectorDB.VectorStore
}

type EmbeddingFactory func(ctx context.Context) (embedding.Embedder, error)

type VectorStoreFactory func(ctx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) (vectorDB.VectorStore, error)

// Registry maps strategy names to factories. Lookups take a read lock so a
// registry can be shared by all workers.
type Registry struct {
	mu           sync.RWMutex
	embeddings   map[string]EmbeddingFactory
	vectorStores map[string]VectorStoreFactory
}

func NewRegistry() *Registry {
	return &Registry{
		embeddings:   map[string]EmbeddingFactory{},
		vectorStores: map[string]VectorStoreFactory{},
	}
}

func (r *Registry) RegisterEmbedding(name string, f EmbeddingFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings[name] = f
}

func (r *Registry) RegisterVectorStore(name string, f VectorStoreFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vectorStores[name] = f
}

func (r *Registry) Embeddings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.embeddings)
}

func (r *Registry) VectorStores() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.vectorStores)
}

// CombineFiles returns every doc of every file in order, tagged with the name
// and id of its file. Citation keys are left as they are.
func CombineFiles(files []*commonModels.File) []*commonModels.Doc {
	var docs []*commonModels.Doc
	for _, file := range files {
		for _, doc := range file.Docs {
			if doc.Metadata == nil {
				doc.Metadata = commonModels.Metadata{}
			}
			doc.Metadata[commonModels.FileNameKey] = file.Name
			doc.Metadata[commonModels.FileIdKey] = file.Id
			docs = append(docs, doc)
		}
	}
	return docs
}

// EmbedFiles builds a FolderIndex over files. Both strategy names are checked
// before any factory runs.
func (r *Registry) EmbedFiles(ctx context.Context, files []*commonModels.File, embeddingName string, vectorStoreName string) (*FolderIndex, error) {
	log := logger.WithTrace(ctx)

	r.mu.RLock()
	newEmbedder, okEmb := r.embeddings[embeddingName]
	newStore, okStore := r.vectorStores[vectorStoreName]
	r.mu.RUnlock()

	if !okEmb {
		log.Warn("unknown embedding strategy", "name", embeddingName)
		return nil, &commonModels.UnsupportedStrategyError{Kind: "embedding", Name: embeddingName}
	}
	if !okStore {
		log.Warn("unknown vector store strategy", "name", vectorStoreName)
		return nil, &commonModels.UnsupportedStrategyError{Kind: "vector_store", Name: vectorStoreName}
	}

	emb, err := newEmbedder(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating %s embedder: %w", embeddingName, err)
	}

	docs := CombineFiles(files)
	store, err := newStore(ctx, docs, emb)
	if err != nil {
		return nil, fmt.Errorf("building %s index: %w", vectorStoreName, err)
	}
	log.Info("folder index built", "files", len(files), "docs", len(docs), "embedding", embeddingName, "vector_store", vectorStoreName)

	return &FolderIndex{Name: DefaultName, Files: files, Index: store}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
