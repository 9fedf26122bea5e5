package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const docIndexKey = "doc_index"

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var initErr error
var once sync.Once

type ClientHolder struct {
	QObj *qdrant.Client
}

// GetQuadrantClient connects once per process. The connection is closed when
// ctx is done.
func GetQuadrantClient(ctx context.Context, cfg config.Qdrant) (*ClientHolder, error) {
	once.Do(func() {
		res, err := newClient(cfg)
		if err != nil {
			initErr = err
			return
		}
		quadrantInstance = res
		go closeQdrant(ctx, quadrantInstance)
	})

	if quadrantInstance == nil {
		return nil, initErr
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}, nil
}

func newClient(cfg config.Qdrant) (*qdrant.Client, error) {
	host, port := cfg.Host, cfg.Port
	if host == "" || port == 0 {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil, err
	}
	logger.Info("Qdrant client created", "host", host, "port", port)
	return client, nil
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// Store is the "qdrant" vector store: one collection per folder index. Points
// carry the position of their Doc so hits resolve to the stored *Doc.
type Store struct {
	db         *ClientHolder
	embedder   embedding.Embedder
	collection string
	docs       []*commonModels.Doc
}

// FromDocuments embeds docs into a fresh collection.
func (db *ClientHolder) FromDocuments(ctx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) (vectorDB.VectorStore, error) {
	log := logger.WithTrace(ctx)
	vectors, err := vectorDB.EmbedDocs(ctx, docs, emb)
	if err != nil {
		return nil, err
	}

	store := &Store{
		db:         db,
		embedder:   emb,
		collection: config.QdrantCollectionPrefix + uuid.NewString(),
		docs:       docs,
	}
	if len(docs) == 0 {
		return store, nil
	}

	if err := createCollection(ctx, db.QObj, store.collection, uint64(len(vectors[0]))); err != nil {
		log.Error("could not create collection: ", "collectionName", store.collection, "error:", err)
		return nil, err
	}
	if err := store.upsertBatch(ctx, vectors); err != nil {
		_ = store.Release(ctx)
		return nil, err
	}
	log.Debug("built qdrant index", "collection", store.collection, "docs", len(docs))
	return store, nil
}

func (s *Store) upsertBatch(ctx context.Context, vectors [][]float32) error {
	points, err := buildPoints(s.docs, vectors)
	if err != nil {
		return err
	}

	for _, batch := range batchPoints(points, config.EmbeddingBatchSize) {
		_, err = s.db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         batch,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed: %w", err)
		}
	}
	return nil
}

func batchPoints(points []*qdrant.PointStruct, size int) [][]*qdrant.PointStruct {
	if size <= 0 {
		size = len(points)
	}
	var batches [][]*qdrant.PointStruct
	for start := 0; start < len(points); start += size {
		batches = append(batches, points[start:min(start+size, len(points))])
	}
	return batches
}

func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]commonModels.ScoredDoc, error) {
	loggr := logger.WithTrace(ctx)
	if len(s.docs) == 0 || k <= 0 {
		return []commonModels.ScoredDoc{}, nil
	}

	vectorFloat, err := s.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	result, err := s.db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	hits := resolveHits(result, s.docs)
	loggr.Debug("Found matches", "count", len(hits))
	return hits, nil
}

// Release drops the collection backing this index.
func (s *Store) Release(ctx context.Context) error {
	if len(s.docs) == 0 {
		return nil
	}
	if err := s.db.QObj.DeleteCollection(ctx, s.collection); err != nil {
		logger.Error("could not drop collection", "collectionName", s.collection, "error", err)
		return err
	}
	return nil
}

func buildPoints(docs []*commonModels.Doc, vectors [][]float32) ([]*qdrant.PointStruct, error) {
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("mismatch: got %d docs but %d vectors", len(docs), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				docIndexKey: i,
				"content":   doc.PageContent,
				"source":    doc.Source(),
				"file_name": doc.FileName(),
				"file_id":   doc.FileId(),
			}),
		}
	}
	return qdrantPoints, nil
}

// resolveHits maps scored points back to the stored docs, skipping points
// that do not belong to this index.
func resolveHits(points []*qdrant.ScoredPoint, docs []*commonModels.Doc) []commonModels.ScoredDoc {
	hits := make([]commonModels.ScoredDoc, 0, len(points))
	for _, hit := range points {
		v, ok := hit.Payload[docIndexKey]
		if !ok {
			continue
		}
		i := v.GetIntegerValue()
		if i < 0 || int(i) >= len(docs) {
			continue
		}
		hits = append(hits, commonModels.ScoredDoc{Doc: docs[i], Score: hit.Score})
	}
	return hits
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}
	if dimension == 0 {
		return errors.New("empty vectors")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
