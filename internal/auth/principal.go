// Package auth resolves who is calling. Services receive the resulting
// Principal explicitly and never look at requests or sessions themselves.
package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Principal is the authenticated identity an operation runs for.
// The zero value is the anonymous caller.
type Principal struct {
	UserID               primitive.ObjectID
	Role                 string
	RegistrationComplete bool
}

func (p Principal) Authenticated() bool {
	return !p.UserID.IsZero()
}

func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == models.RoleAdmin
}

// PrincipalFor builds the principal of a loaded user.
func PrincipalFor(u *models.User) Principal {
	return Principal{
		UserID:               u.ID,
		Role:                 u.Role,
		RegistrationComplete: u.GoogleRegistrationComplete,
	}
}
