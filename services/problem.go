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

// UpsertDepositProblem records an unresolved deposit complaint. Only the
// latest unresolved report per user is kept: a new report overwrites any
// prior one, including its notified flag.
func UpsertDepositProblem(ctx context.Context, userID, orderNumber, description string) error {
	collection := database.Collection(collDepositProblems)

	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"order_number": orderNumber,
			"description":  description,
			"status":       models.ProblemStatusOpen,
			"notified":     false,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		slog.Error("Failed to upsert deposit problem", "userID", userID, "orderNumber", orderNumber, "error", err)
		return err
	}

	if result.UpsertedCount > 0 {
		slog.Info("New deposit problem recorded", "userID", userID, "orderNumber", orderNumber)
	} else {
		slog.Info("Deposit problem overwritten", "userID", userID, "orderNumber", orderNumber)
	}

	return nil
}

// MarkDepositProblemNotified flips the notified flag once the operator
// channel confirmed delivery.
func MarkDepositProblemNotified(ctx context.Context, userID string) error {
	_, err := database.Collection(collDepositProblems).UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"notified": true, "updated_at": time.Now()}},
	)
	return err
}

// ResolveDepositProblem closes a problem. Administrative action from the
// dashboard; the chat pipeline never calls this.
func ResolveDepositProblem(ctx context.Context, userID string) error {
	result, err := database.Collection(collDepositProblems).UpdateOne(ctx,
		bson.M{"user_id": userID, "status": models.ProblemStatusOpen},
		bson.M{"$set": bson.M{"status": models.ProblemStatusResolved, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetOpenDepositProblems lists open problems, newest first.
func GetOpenDepositProblems(ctx context.Context, limit, skip int) ([]models.DepositProblem, int64, error) {
	collection := database.Collection(collDepositProblems)

	filter := bson.M{"status": models.ProblemStatusOpen}

	totalCount, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.M{"updated_at": -1}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var problems []models.DepositProblem
	if err := cursor.All(ctx, &problems); err != nil {
		return nil, 0, err
	}

	return problems, totalCount, nil
}
