package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	// Set context with timeout for the connection attempt
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection.
	// A separate context: connecting can succeed while the server stays unresponsive.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second) // Shorter timeout for ping
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		// If ping fails, disconnect the client before returning the error
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	// Connection successful
	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every repository relies on.
// The unique indexes back the duplicate-key fallbacks in PB reconciliation.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	EnsureWorkoutIndexes(ctx, db.Collection(workoutCollectionName))
	EnsureExerciseIndexes(ctx, db.Collection(exerciseCollectionName))
	EnsurePersonalBestIndexes(ctx, db.Collection(personalBestCollectionName))
	EnsureArchiveIndexes(ctx, db.Collection(archiveCollectionName))
}

// createIndexes logs instead of failing; it runs in the background at startup.
func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) {
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
