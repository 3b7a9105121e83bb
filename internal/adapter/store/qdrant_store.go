package store

import (
	"context"
	"fmt"
	"strconv"

	"gita-assistant/internal/domain/entity"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// QdrantStore is a read-only nearest-neighbor search over a pre-populated collection.
type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
}

func NewQdrantStore(client *qdrant.Client, collectionName string) *QdrantStore {
	return &QdrantStore{
		client:         client,
		collectionName: collectionName,
	}
}

// CheckCollection reports a configuration error when the collection is missing.
// Other failures are returned as they are, the service may simply be starting.
func (s *QdrantStore) CheckCollection(ctx context.Context) (uint64, error) {
	info, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if ok && st.Code() == codes.NotFound {
			return 0, entity.ConfigError("qdrant collection %q does not exist", s.collectionName)
		}
		return 0, fmt.Errorf("qdrant collection info: %w", err)
	}
	return info.GetPointsCount(), nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, k int) ([]entity.RetrievedDocument, error) {
	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)), // #nosec G115 -- k > 0
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, entity.NewRemoteError(entity.StageSearch, err)
	}
	return ToDocuments(res), nil
}

// ToDocuments keeps the rank order and flattens scalar payload values to strings.
func ToDocuments(points []*qdrant.ScoredPoint) []entity.RetrievedDocument {
	docs := make([]entity.RetrievedDocument, 0, len(points))
	for _, hit := range points {
		payload := make(map[string]string, len(hit.GetPayload()))
		for key, value := range hit.GetPayload() {
			if s, ok := valueString(value); ok {
				payload[key] = s
			}
		}
		docs = append(docs, entity.RetrievedDocument{Payload: payload, Score: hit.GetScore()})
	}
	return docs
}

func valueString(v *qdrant.Value) (string, bool) {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue, true
	case *qdrant.Value_IntegerValue:
		return strconv.FormatInt(kind.IntegerValue, 10), true
	case *qdrant.Value_DoubleValue:
		return strconv.FormatFloat(kind.DoubleValue, 'f', -1, 64), true
	case *qdrant.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), true
	default:
		return "", false
	}
}
