package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const (
	titlesCollection  = "titles"
	ratingsCollection = "title_ratings"
)

// TitleRepository implements ports.TitleRepository on MongoDB. Ratings
// live in their own collection keyed by (title_id, username); the title
// document carries the running sum and count.
type TitleRepository struct {
	titles  *mongo.Collection
	ratings *mongo.Collection
}

func NewTitleRepository(db *mongo.Database) *TitleRepository {
	return &TitleRepository{
		titles:  db.Collection(titlesCollection),
		ratings: db.Collection(ratingsCollection),
	}
}

func (r *TitleRepository) Create(ctx context.Context, t *domain.Title) (*domain.Title, error) {
	out := *t
	out.ID = primitive.NewObjectID().Hex()

	if _, err := r.titles.InsertOne(ctx, &out); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert title: %w", err)
	}
	return &out, nil
}

func (r *TitleRepository) FindByID(ctx context.Context, id string) (*domain.Title, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TitleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Title, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *TitleRepository) findOne(ctx context.Context, filter bson.M) (*domain.Title, error) {
	var t domain.Title
	if err := r.titles.FindOne(ctx, filter).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTitleNotFound
		}
		return nil, fmt.Errorf("find title: %w", err)
	}
	return &t, nil
}

func (r *TitleRepository) Search(ctx context.Context, query string) ([]*domain.Title, error) {
	filter := bson.M{"name": bson.M{
		"$regex":   regexp.QuoteMeta(query),
		"$options": "i",
	}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cur, err := r.titles.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("search titles: %w", err)
	}
	defer cur.Close(ctx)

	titles := []*domain.Title{}
	if err := cur.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	return titles, nil
}

func (r *TitleRepository) List(ctx context.Context, filter ports.TitleListFilter) ([]*domain.Title, int64, error) {
	match := bson.M{}
	if filter.Author != "" {
		match["author"] = filter.Author
	}
	if len(filter.CategoryIDs) > 0 {
		match["category_id"] = bson.M{"$in": filter.CategoryIDs}
	}

	total, err := r.titles.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	if filter.SortBy == ports.SortTop {
		titles, err := r.listTop(ctx, match, filter.Skip, filter.Limit)
		return titles, total, err
	}

	// hot: most recent entry activity first, freshly created titles by
	// creation time.
	opts := options.Find().
		SetSort(bson.D{{Key: "last_entry_at", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.Skip)).
		SetLimit(int64(filter.Limit))

	cur, err := r.titles.Find(ctx, match, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list titles: %w", err)
	}
	defer cur.Close(ctx)

	titles := []*domain.Title{}
	if err := cur.All(ctx, &titles); err != nil {
		return nil, 0, fmt.Errorf("decode titles: %w", err)
	}
	return titles, total, nil
}

// listTop sorts by average rating computed in the pipeline; unrated
// titles sink to the bottom.
func (r *TitleRepository) listTop(ctx context.Context, match bson.M, skip, limit int) ([]*domain.Title, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"avg_rating": bson.M{"$cond": bson.A{
				bson.M{"$gt": bson.A{"$rating_count", 0}},
				bson.M{"$divide": bson.A{"$rating_sum", "$rating_count"}},
				0,
			}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "avg_rating", Value: -1},
			{Key: "rating_count", Value: -1},
			{Key: "created_at", Value: -1},
		}}},
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := r.titles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list top titles: %w", err)
	}
	defer cur.Close(ctx)

	titles := []*domain.Title{}
	if err := cur.All(ctx, &titles); err != nil {
		return nil, fmt.Errorf("decode titles: %w", err)
	}
	return titles, nil
}

func (r *TitleRepository) Update(ctx context.Context, id string, upd ports.TitleUpdate) (*domain.Title, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Slug != nil {
		set["slug"] = *upd.Slug
	}
	if upd.CategoryID != nil {
		set["category_id"] = *upd.CategoryID
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}

	var t domain.Title
	err := r.titles.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTitleNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("update title: %w", err)
	}
	return &t, nil
}

func (r *TitleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.titles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (r *TitleRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	n, err := r.titles.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count titles by category: %w", err)
	}
	return n, nil
}

func (r *TitleRepository) IncEntryStats(ctx context.Context, id string, delta int64, lastEntryAt time.Time) error {
	update := bson.M{
		"$inc": bson.M{"entry_count": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	if !lastEntryAt.IsZero() {
		update["$max"] = bson.M{"last_entry_at": lastEntryAt}
	}

	res, err := r.titles.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update entry stats: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (r *TitleRepository) UpsertRating(ctx context.Context, rating *domain.Rating) (int, bool, error) {
	filter := bson.M{"title_id": rating.TitleID, "username": rating.Username}
	update := bson.M{
		"$set": bson.M{
			"value":      rating.Value,
			"updated_at": rating.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":      primitive.NewObjectID().Hex(),
			"title_id": rating.TitleID,
			"username": rating.Username,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var prev domain.Rating
	err := r.ratings.FindOneAndUpdate(ctx, filter, update, opts).Decode(&prev)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("upsert rating: %w", err)
	}
	return prev.Value, true, nil
}

func (r *TitleRepository) FindRating(ctx context.Context, titleID, username string) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.ratings.FindOne(ctx, bson.M{"title_id": titleID, "username": username}).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &rating, nil
}

func (r *TitleRepository) ApplyRatingDelta(ctx context.Context, titleID string, sumDelta, countDelta int64) error {
	res, err := r.titles.UpdateOne(ctx, bson.M{"_id": titleID}, bson.M{
		"$inc": bson.M{"rating_sum": sumDelta, "rating_count": countDelta},
	})
	if err != nil {
		return fmt.Errorf("apply rating delta: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (r *TitleRepository) DeleteRatingsByTitle(ctx context.Context, titleID string) error {
	if _, err := r.ratings.DeleteMany(ctx, bson.M{"title_id": titleID}); err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	return nil
}

func ensureTitleIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(titlesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "last_entry_at", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection(ratingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title_id", Value: 1}, {Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
