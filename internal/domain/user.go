package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// User is the read-only view of an account this service needs: who the user
// is and, for clients, which trainer (tenant) they belong to.
// Accounts themselves are created and authenticated elsewhere.
type User struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Role      Role                `bson:"role" json:"role"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// IsManagedBy reports whether the client belongs to the given trainer.
func (u *User) IsManagedBy(trainerID primitive.ObjectID) bool {
	return u.TrainerID != nil && *u.TrainerID == trainerID
}
