package audit

import (
	"context"
	"errors"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStorage stores records as documents keyed by record id.
type MongoStorage struct {
	coll *mongo.Collection
}

func NewMongoStorage(coll *mongo.Collection) *MongoStorage {
	if coll == nil {
		panic("audit: mongo collection cannot be nil")
	}
	return &MongoStorage{coll: coll}
}

// EnsureIndexes creates the indexes Query relies on.
func (s *MongoStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_type", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipients", Value: 1}}},
		{Keys: bson.D{{Key: "event_id", Value: 1}}},
	})
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (s *MongoStorage) StoreBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
		docs = append(docs, records[i])
	}

	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

// onlyDuplicates reports whether every write error of a bulk insert is a
// duplicate key, which happens when a batch is retried.
func onlyDuplicates(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return mongo.IsDuplicateKeyError(err)
	}
	if bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if !slices.Contains(duplicateKeyCodes, we.Code) {
			return false
		}
	}
	return true
}

var duplicateKeyCodes = []int{11000, 11001, 12582}

func (s *MongoStorage) Query(ctx context.Context, c Criteria) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if c.Limit > 0 {
		opts.SetLimit(int64(c.Limit))
	}
	if c.Offset > 0 {
		opts.SetSkip(int64(c.Offset))
	}

	cur, err := s.coll.Find(ctx, mongoFilter(c), opts)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	out := []Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return out, nil
}

func mongoFilter(c Criteria) bson.D {
	filter := bson.D{}
	if c.EventType != "" {
		filter = append(filter, bson.E{Key: "event_type", Value: c.EventType})
	}
	if c.OrgID != "" {
		filter = append(filter, bson.E{Key: "org_id", Value: c.OrgID})
	}
	if c.RecipientID != "" {
		filter = append(filter, bson.E{Key: "recipients", Value: c.RecipientID})
	}
	if !c.Since.IsZero() || !c.Until.IsZero() {
		window := bson.D{}
		if !c.Since.IsZero() {
			window = append(window, bson.E{Key: "$gte", Value: c.Since})
		}
		if !c.Until.IsZero() {
			window = append(window, bson.E{Key: "$lt", Value: c.Until})
		}
		filter = append(filter, bson.E{Key: "occurred_at", Value: window})
	}
	return filter
}
