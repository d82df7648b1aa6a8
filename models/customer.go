package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer represents a player who has messaged the support bot. One profile
// per user ID; created lazily on the first message.
type Customer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	DisplayName  string             `bson:"display_name,omitempty" json:"display_name,omitempty"`
	MessageCount int                `bson:"message_count" json:"message_count"`
	LastMessage  string             `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastLanguage string             `bson:"last_language,omitempty" json:"last_language,omitempty"`
	FirstSeen    time.Time          `bson:"first_seen" json:"first_seen"`
	LastSeen     time.Time          `bson:"last_seen" json:"last_seen"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
