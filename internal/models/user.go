package models

import "time"

// User represents an account
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Password    *string   `json:"-"` // Opaque, never serialized
	PhoneNumber *string   `json:"phone_number"`
	Address     *string   `json:"address"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUserRequest represents a request to create a user.
// Required fields are pointers so that only their presence is checked, empty strings are accepted.
type CreateUserRequest struct {
	Username    *string `json:"username" validate:"required,max=255"`
	FirstName   *string `json:"first_name" validate:"required,max=255"`
	LastName    *string `json:"last_name" validate:"required,max=255"`
	Email       *string `json:"email" validate:"required,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=200"`
	Role        *string `json:"role" validate:"required,max=20"`
}

// UpdateUserRequest represents a request to update a user.
// Only the active flag is mutable.
type UpdateUserRequest struct {
	IsActive *bool `json:"is_active"`
}

// CreatedUser is the data payload of a successful create
type CreatedUser struct {
	ID int `json:"id"`
}
