package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"support-bot/models"
)

// SaveTurn appends a conversation turn to the messages collection. Turns
// are append-only; nothing updates or deletes them.
func SaveTurn(ctx context.Context, msg *models.Message) error {
	_, err := database.Collection(collMessages).InsertOne(ctx, msg)
	return err
}

// GetConversationHistory fetches the most recent turns for a user, oldest
// first.
func GetConversationHistory(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 20
	}

	findOptions := options.Find().
		SetSort(bson.M{"timestamp": -1}).
		SetLimit(int64(limit))

	cursor, err := database.Collection(collMessages).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	// Reverse into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
