package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"support-bot/models"
)

// SaveOrUpdateCustomer upserts the customer profile when a message arrives.
// The profile is created lazily on the first message from a user ID.
func SaveOrUpdateCustomer(ctx context.Context, userID, lastMessage, language string) error {
	collection := database.Collection(collCustomers)

	now := time.Now()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"last_message":  lastMessage,
			"last_language": language,
			"last_seen":     now,
			"updated_at":    now,
		},
		"$inc": bson.M{
			"message_count": 1,
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"first_seen": now,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		slog.Error("Failed to save/update customer", "userID", userID, "error", err)
		return err
	}

	if result.UpsertedCount > 0 {
		slog.Info("New customer created", "userID", userID)
	}

	return nil
}

// GetCustomer retrieves a customer profile by user ID.
func GetCustomer(ctx context.Context, userID string) (*models.Customer, error) {
	var customer models.Customer
	err := database.Collection(collCustomers).FindOne(ctx, bson.M{"user_id": userID}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetCustomers retrieves customer profiles sorted by most recent activity.
func GetCustomers(ctx context.Context, limit, skip int) ([]models.Customer, int64, error) {
	collection := database.Collection(collCustomers)

	totalCount, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"last_seen": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var customers []models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, 0, err
	}

	return customers, totalCount, nil
}
