package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/fgiraldo/ragapi/internal/config"
	"github.com/fgiraldo/ragapi/internal/domain/ragModel"
	"github.com/fgiraldo/ragapi/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
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

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string, dimension uint64) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}

func (db *ClientHolder) Count(ctx context.Context, collectionName string) (uint64, error) {
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, records []ragModel.EmbeddingRecord) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(records))

	for i, record := range records {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(record.Id),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":  record.Text,
				"source":   record.Source,
				"page":     int64(record.Page),
				"chunk_id": record.Id,
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collectionName string, vector []float32, topK uint64) ([]ragModel.Passage, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	passages := make([]ragModel.Passage, 0, len(result))
	for _, hit := range result {
		passages = append(passages, ragModel.Passage{
			Text:     hit.Payload["content"].GetStringValue(),
			Source:   hit.Payload["source"].GetStringValue(),
			Page:     int(hit.Payload["page"].GetIntegerValue()),
			ChunkId:  hit.Payload["chunk_id"].GetStringValue(),
			Distance: hit.Score,
		})
	}

	loggr.Debug("Vector search done", "matches", len(passages))
	return passages, nil
}

func (db *ClientHolder) Drop(ctx context.Context, collectionName string) error {
	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return db.QObj.DeleteCollection(ctx, collectionName)
}
