package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OperatorRole represents the role of a dashboard operator
type OperatorRole string

const (
	RoleAdmin OperatorRole = "admin"
	RoleAgent OperatorRole = "agent"
)

// Operator represents a human support operator with dashboard access
type Operator struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	FullName string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Role     OperatorRole       `bson:"role" json:"role"`

	// Authentication
	PasswordHash string `bson:"password_hash" json:"-"`

	// Status
	IsActive  bool      `bson:"is_active" json:"is_active"`
	LastLogin time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role string) bool {
	switch OperatorRole(role) {
	case RoleAdmin, RoleAgent:
		return true
	}
	return false
}
