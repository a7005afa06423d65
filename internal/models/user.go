package models

import (
	"time"

	"fieldbook/internal/authz"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string     `gorm:"size:100;not null" json:"name"`
	Email      string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password   string     `gorm:"size:191;not null" json:"-"`
	Role       authz.Role `gorm:"type:varchar(16);not null" json:"role"`
	IsVerified bool       `gorm:"default:false" json:"is_verified"`
}

// Principal returns the authorization view of the user.
func (u User) Principal() authz.Principal {
	return authz.Principal{ID: u.ID, Role: u.Role, Verified: u.IsVerified}
}
