package models

import "time"

// Roles a user can hold. Every account starts as a driver; workshop owners and
// mechanics are the providers who accept assistance requests.
const (
	RoleDriver        = "driver"
	RoleMechanic      = "mechanic"
	RoleWorkshopOwner = "workshop_owner"
	RoleAdmin         = "admin"
)

// User represents a platform account. ExternalID is the stable subject issued
// by the identity provider; authentication itself is not handled here.
type User struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"-"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FullName   *string   `json:"full_name,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpdateProfileRequest is the data a driver can change on their own account.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}
