package models

import (
	"time"
)

type User struct {
	ID          string                   `json:"id" bson:"_id"`
	Email       string                   `json:"email" bson:"email"`
	Password    string                   `json:"-" bson:"password"`
	Name        string                   `json:"name" bson:"name"`
	AvatarURL   string                   `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	Bio         string                   `json:"bio,omitempty" bson:"bio,omitempty"`
	FCMToken    string                   `json:"-" bson:"fcmToken,omitempty"`
	Preferences *NotificationPreferences `json:"preferences,omitempty" bson:"preferences,omitempty"`
	CreatedAt   time.Time                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// Auth DTOs
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
