package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

const pictureBucketName = "profile_pictures"

// PictureStore keeps profile pictures in a GridFS bucket, one file per
// username. Uploads write a new revision first and then drop the old
// ones, so readers never observe a missing picture mid-replace.
type PictureStore struct {
	bucket *gridfs.Bucket
}

func NewPictureStore(db *mongo.Database) (*PictureStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(pictureBucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &PictureStore{bucket: bucket}, nil
}

func (s *PictureStore) Save(ctx context.Context, username, contentType string, r io.Reader) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetWriteDeadline(deadline)
	}

	uploadOpts := options.GridFSUpload().
		SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	id, err := s.bucket.UploadFromStream(username, r, uploadOpts)
	if err != nil {
		return fmt.Errorf("upload picture: %w", err)
	}

	return s.dropOldRevisions(ctx, username, id)
}

func (s *PictureStore) Open(ctx context.Context, username string) (io.ReadCloser, string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = s.bucket.SetReadDeadline(deadline)
	}

	stream, err := s.bucket.OpenDownloadStreamByName(username)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", domain.ErrPictureNotFound
		}
		return nil, "", fmt.Errorf("open picture: %w", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if v, err := file.Metadata.LookupErr("content_type"); err == nil {
			if ct, ok := v.StringValueOK(); ok {
				contentType = ct
			}
		}
	}

	return stream, contentType, nil
}

func (s *PictureStore) dropOldRevisions(ctx context.Context, username string, keep primitive.ObjectID) error {
	cursor, err := s.bucket.Find(bson.M{"filename": username, "_id": bson.M{"$ne": keep}})
	if err != nil {
		return fmt.Errorf("find picture revisions: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var file struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return fmt.Errorf("decode picture revision: %w", err)
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return fmt.Errorf("delete picture revision: %w", err)
		}
	}
	return cursor.Err()
}
