package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                       string             `json:"name" bson:"name"`
	Email                      string             `json:"email" bson:"email"`
	PasswordHash               string             `json:"-" bson:"password,omitempty"`
	Phone                      string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address                    string             `json:"address,omitempty" bson:"address,omitempty"`
	Role                       string             `json:"role" bson:"role"`
	GoogleRegistrationComplete bool               `json:"google_registration_complete" bson:"google_registration_complete"`
	CreatedAt                  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt                  time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasPassword reports whether the account can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// UserStats summarises a user's order history for the profile page.
type UserStats struct {
	OrderCount int   `json:"order_count"`
	TotalSpent int64 `json:"total_spent"`
	Points     int64 `json:"points"`
}

type UserProfile struct {
	User  *User     `json:"user"`
	Stats UserStats `json:"stats"`
}
