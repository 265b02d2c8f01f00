package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

const (
	collectionSearches = "search_records"
	collectionCounters = "counters"

	searchSeqCounter = "search_records_seq"
)

// SearchRecordRepository implements the append-only resolution history on
// MongoDB. Each record carries a seq allocated from an atomic counter; pages
// are ordered on seq so a record appended after a page was fetched can never
// shift or duplicate rows in earlier pages.
type SearchRecordRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewSearchRecordRepository(db *mongo.Database) *SearchRecordRepository {
	return &SearchRecordRepository{
		col:      db.Collection(collectionSearches),
		counters: db.Collection(collectionCounters),
	}
}

// Insert appends one history record, assigning the next sequence number.
func (r *SearchRecordRepository) Insert(ctx context.Context, record *domain.SearchRecord) (*domain.SearchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("insert search record: %w", err)
	}

	stored := *record
	stored.Seq = seq

	if _, err := r.col.InsertOne(ctx, stored); err != nil {
		return nil, fmt.Errorf("insert search record: %w", err)
	}
	return &stored, nil
}

// List returns one page ordered by seq descending plus the total count.
func (r *SearchRecordRepository) List(ctx context.Context, page, pageSize int) ([]*domain.SearchRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count search records: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetSkip(int64(page-1) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list search records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.SearchRecord
	for cursor.Next(ctx) {
		var rec domain.SearchRecord
		if err := cursor.Decode(&rec); err != nil {
			return nil, 0, fmt.Errorf("list search records: decode: %w", err)
		}
		records = append(records, &rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list search records: %w", err)
	}

	return records, total, nil
}

// nextSeq atomically increments and returns the history sequence counter.
func (r *SearchRecordRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": searchSeqCounter},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return counter.Value, nil
}

// EnsureIndexes creates necessary indexes on the search history collection.
func (r *SearchRecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: -1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "city_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
