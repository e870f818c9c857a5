package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies what a user account is allowed to do
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a registered account (customer or administrator)
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName    string             `bson:"fullName" json:"fullName"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	NIC         string             `bson:"nic,omitempty" json:"nic,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth time.Time          `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Role        Role               `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Caller is the authenticated identity attached to every protected request.
// It is passed explicitly into each service operation; there is no ambient
// session state.
type Caller struct {
	UserID primitive.ObjectID
	Role   Role
}

// IsAdmin reports whether the caller has administrator privileges
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the caller is the owning user of a resource
func (c Caller) Owns(userID primitive.ObjectID) bool {
	return c.UserID == userID
}
