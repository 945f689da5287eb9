package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryArchive stores metadata about an exported exercise history.
// The JSON document itself resides in S3.
type HistoryArchive struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID     primitive.ObjectID `bson:"clientId" json:"clientId"`
	ExerciseName string             `bson:"exercise_name" json:"exercise_name"` // Normalized
	S3ObjectKey  string             `bson:"s3ObjectKey" json:"objectKey"`
	ContentType  string             `bson:"contentType" json:"contentType"`
	Size         int64              `bson:"size" json:"size"` // Bytes
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
