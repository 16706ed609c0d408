package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const categoriesCollection = "categories"

// CategoryRepository implements ports.CategoryRepository on MongoDB.
type CategoryRepository struct {
	categories *mongo.Collection
	entries    *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		categories: db.Collection(categoriesCollection),
		entries:    db.Collection(entriesCollection),
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	out := *c
	out.ID = primitive.NewObjectID().Hex()

	if _, err := r.categories.InsertOne(ctx, &out); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer cur.Close(ctx)

	categories := []domain.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, name string) (*domain.Category, error) {
	res, err := r.categories.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) HasChildren(ctx context.Context, id string) (bool, error) {
	n, err := r.categories.CountDocuments(ctx, bson.M{"parent_id": id})
	if err != nil {
		return false, fmt.Errorf("count children: %w", err)
	}
	return n > 0, nil
}

// TrendingSince counts entries posted since the cutoff, joined to their
// titles to reach the category, then ranks categories by that count.
func (r *CategoryRepository) TrendingSince(ctx context.Context, since time.Time, limit int) ([]ports.CategoryTrend, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": since}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         titlesCollection,
			"localField":   "title_id",
			"foreignField": "_id",
			"as":           "title",
		}}},
		bson.D{{Key: "$unwind", Value: "$title"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         "$title.category_id",
			"entry_count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "entry_count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := r.entries.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("trending categories: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		CategoryID string `bson:"_id"`
		EntryCount int64  `bson:"entry_count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode trending: %w", err)
	}

	trends := []ports.CategoryTrend{}
	for _, row := range rows {
		cat, err := r.FindByID(ctx, row.CategoryID)
		if err != nil {
			if err == domain.ErrCategoryNotFound {
				continue
			}
			return nil, err
		}
		trends = append(trends, ports.CategoryTrend{Category: *cat, EntryCount: row.EntryCount})
	}
	return trends, nil
}

func ensureCategoryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(categoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent_id", Value: 1}},
	})
	return err
}
