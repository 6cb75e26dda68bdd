package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can hold a cart. IsStaff unlocks catalog writes.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	IsStaff      bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken is the single bearer credential issued to a user.
type AuthToken struct {
	Key       string    `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
