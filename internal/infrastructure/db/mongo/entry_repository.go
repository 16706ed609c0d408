package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

const entriesCollection = "entries"

// EntryRepository implements ports.EntryRepository on MongoDB.
type EntryRepository struct {
	coll *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{coll: db.Collection(entriesCollection)}
}

func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	out := *e
	out.ID = primitive.NewObjectID().Hex()

	if _, err := r.coll.InsertOne(ctx, &out); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return &out, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id string) (*domain.Entry, error) {
	var e domain.Entry
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) UpdateText(ctx context.Context, id, text string) (*domain.Entry, error) {
	var e domain.Entry
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"text": text, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return &e, nil
}

func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) DeleteByTitle(ctx context.Context, titleID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"title_id": titleID}); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}

func (r *EntryRepository) ListByTitle(ctx context.Context, titleID string, skip, limit int) ([]*domain.Entry, int64, error) {
	return r.list(ctx, bson.M{"title_id": titleID}, bson.D{{Key: "created_at", Value: 1}}, skip, limit)
}

func (r *EntryRepository) ListByAuthor(ctx context.Context, author string, skip, limit int) ([]*domain.Entry, int64, error) {
	return r.list(ctx, bson.M{"author": author}, bson.D{{Key: "created_at", Value: -1}}, skip, limit)
}

func (r *EntryRepository) list(ctx context.Context, filter bson.M, sort bson.D, skip, limit int) ([]*domain.Entry, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	opts := options.Find().SetSort(sort).SetSkip(int64(skip)).SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	defer cur.Close(ctx)

	entries := []*domain.Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, 0, fmt.Errorf("decode entries: %w", err)
	}
	return entries, total, nil
}

func (r *EntryRepository) FeaturedByTitle(ctx context.Context, titleID string) (*domain.Entry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"title_id": titleID}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"net_votes": bson.M{"$subtract": bson.A{"$up_votes", "$down_votes"}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "net_votes", Value: -1},
			{Key: "created_at", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: 1}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("featured entry: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*domain.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return entries[0], nil
}

func (r *EntryRepository) IncVotes(ctx context.Context, id string, direction domain.VoteDirection, delta int64) error {
	field := "up_votes"
	if direction == domain.VoteDown {
		field = "down_votes"
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return fmt.Errorf("update vote count: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func ensureEntryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(entriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}
