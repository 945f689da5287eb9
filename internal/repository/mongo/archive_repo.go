package mongo

import (
	"alcyxob/fitness-records/internal/domain"
	"alcyxob/fitness-records/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const archiveCollectionName = "history_archives"

// mongoArchiveRepository implements repository.ArchiveRepository
type mongoArchiveRepository struct {
	collection *mongo.Collection
}

// NewMongoArchiveRepository creates a new archive metadata repository backed by MongoDB.
func NewMongoArchiveRepository(db *mongo.Database) repository.ArchiveRepository {
	return &mongoArchiveRepository{
		collection: db.Collection(archiveCollectionName),
	}
}

// Create inserts archive metadata after the object has been stored.
func (r *mongoArchiveRepository) Create(ctx context.Context, archive *domain.HistoryArchive) (primitive.ObjectID, error) {
	if archive.ClientID == primitive.NilObjectID || archive.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("archive requires clientId and s3ObjectKey")
	}

	archive.ID = primitive.NewObjectID()
	if archive.CreatedAt.IsZero() {
		archive.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, archive)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// ListByClient returns the client's archives, newest first.
func (r *mongoArchiveRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.HistoryArchive, error) {
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	archives := []domain.HistoryArchive{}
	if err = cursor.All(ctx, &archives); err != nil {
		return nil, err
	}
	return archives, nil
}

// EnsureArchiveIndexes creates necessary indexes for the archive collection.
func EnsureArchiveIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("archive_client_created"),
		},
		{
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("archive_object_key"),
		},
	})
}
