package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient *mongo.Client
	database    *mongo.Database
)

// Collection names.
const (
	collMessages        = "messages"
	collCustomers       = "customers"
	collDeposits        = "deposits"
	collWithdrawals     = "withdrawals"
	collDepositProblems = "deposit_problems"
	collImportBatches   = "import_batches"
	collOperators       = "operators"
	collSessions        = "sessions"
)

// GetDatabase returns the MongoDB database instance
func GetDatabase() *mongo.Database {
	return database
}

// InitMongoDB initializes MongoDB connection
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	mongoClient = client

	return client, nil
}

// InitServices initializes all services
func InitServices(client *mongo.Client, databaseName string) {
	database = client.Database(databaseName)

	createIndexes()
}

// createIndexes creates necessary database indexes
func createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Conversation turns
	database.Collection(collMessages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.M{"timestamp": -1}},
	})

	// Customer profiles: one per user
	database.Collection(collCustomers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"user_id": 1},
		Options: options.Index().SetUnique(true),
	})

	// Ledgers: order_number is the unique key, first write wins
	for _, coll := range []string{collDeposits, collWithdrawals} {
		database.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{"order_number": 1},
			Options: options.Index().SetUnique(true),
		})
	}

	// One open deposit problem per user
	database.Collection(collDepositProblems).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"user_id": 1},
		Options: options.Index().SetUnique(true),
	})

	database.Collection(collImportBatches).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"batch_id": 1},
		Options: options.Index().SetUnique(true),
	})

	// Operator auth
	database.Collection(collOperators).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	})
	database.Collection(collSessions).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"session_id": 1}, Options: options.Index().SetUnique(true)},
		{Keys: bson.M{"expires_at": 1}},
	})
}
