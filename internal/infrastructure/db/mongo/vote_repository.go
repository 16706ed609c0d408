package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

const votesCollection = "entry_votes"

// VoteRepository implements ports.VoteRepository on MongoDB. The unique
// (entry_id, username) index is the one-vote-per-user guarantee.
type VoteRepository struct {
	coll *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{coll: db.Collection(votesCollection)}
}

func (r *VoteRepository) Insert(ctx context.Context, v *domain.Vote) error {
	doc := *v
	doc.ID = primitive.NewObjectID().Hex()

	if _, err := r.coll.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

func (r *VoteRepository) Find(ctx context.Context, entryID, username string) (*domain.Vote, error) {
	var v domain.Vote
	err := r.coll.FindOne(ctx, bson.M{"entry_id": entryID, "username": username}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

func (r *VoteRepository) Delete(ctx context.Context, entryID, username string, direction domain.VoteDirection) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{
		"entry_id":  entryID,
		"username":  username,
		"direction": direction,
	})
	if err != nil {
		return false, fmt.Errorf("delete vote: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *VoteRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"entry_id": entryID}); err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	return nil
}

func (r *VoteRepository) ListByUser(ctx context.Context, username string, direction domain.VoteDirection, skip, limit int) ([]*domain.Vote, int64, error) {
	filter := bson.M{"username": username, "direction": direction}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count votes: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list votes: %w", err)
	}
	defer cur.Close(ctx)

	votes := []*domain.Vote{}
	if err := cur.All(ctx, &votes); err != nil {
		return nil, 0, fmt.Errorf("decode votes: %w", err)
	}
	return votes, total, nil
}

func ensureVoteIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(votesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "entry_id", Value: 1}, {Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "direction", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}
