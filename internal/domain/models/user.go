// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the access level derived for a signed-in person.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleVisitor Role = "visitor"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleVisitor:
		return true
	}
	return false
}

// Privileged reports whether r may see restricted views.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleMember
}

// Profile status values.
const (
	StatusActive   = "ativo"
	StatusInactive = "inativo"
)

// Default display names given to profiles created on first sign-in.
const (
	DefaultProfileName = "Acadêmico LAPIB"
	DefaultAdminName   = "Administrador Master"
)

// User is the profile record for a signed-in account.
// Its _id is the owning Account's _id.
type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Email          string             `bson:"email" json:"email"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Role           Role               `bson:"role" json:"role"`
	CPF            string             `bson:"cpf,omitempty" json:"cpf,omitempty"`
	RegistrationID string             `bson:"registration_id,omitempty" json:"registration_id,omitempty"`
	PhotoURL       string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt Stamp `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt Stamp `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Account is the credential record behind a profile.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	DisplayName  string             `bson:"display_name,omitempty" json:"display_name,omitempty"`
	PhotoURL     string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Provider     string             `bson:"provider" json:"provider"` // password | google
	GoogleID     string             `bson:"google_id,omitempty" json:"-"`
	CreatedAt    Stamp              `bson:"created_at" json:"created_at"`
}

// Account providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)
