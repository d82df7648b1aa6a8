package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"support-bot/models"
)

// CreateOperator creates a dashboard operator account with a bcrypt-hashed
// password.
func CreateOperator(ctx context.Context, username, password, fullName string, role models.OperatorRole) (*models.Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	operator := &models.Operator{
		ID:           primitive.NewObjectID(),
		Username:     username,
		FullName:     fullName,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := database.Collection(collOperators).InsertOne(ctx, operator); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}

	slog.Info("Operator created", "username", username, "role", role)
	return operator, nil
}

// GetOperatorByUsername fetches an active operator account. Returns nil
// when the username is unknown.
func GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var operator models.Operator
	err := database.Collection(collOperators).FindOne(ctx, bson.M{
		"username":  username,
		"is_active": true,
	}).Decode(&operator)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &operator, nil
}

// VerifyOperatorPassword checks credentials and updates last_login on
// success. Returns nil without error for bad credentials.
func VerifyOperatorPassword(ctx context.Context, username, password string) (*models.Operator, error) {
	operator, err := GetOperatorByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	_, err = database.Collection(collOperators).UpdateOne(ctx,
		bson.M{"_id": operator.ID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		slog.Warn("Failed to update last login", "username", username, "error", err)
	}

	return operator, nil
}

// EnsureDefaultAdmin seeds the admin account on first boot so the dashboard
// is reachable. Does nothing when the username already exists or no
// password is configured.
func EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		slog.Warn("ADMIN_PASSWORD not set, skipping default admin creation")
		return nil
	}

	existing, err := GetOperatorByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = CreateOperator(ctx, username, password, "Administrator", models.RoleAdmin)
	return err
}
