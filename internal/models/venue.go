package models

import "time"

// Venue is owned by exactly one user and holds many fields.
type Venue struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name    string `gorm:"size:191;not null" json:"name"`
	Address string `gorm:"size:255;not null" json:"address"`
	Phone   string `gorm:"size:32;not null" json:"phone"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`

	Owner  *User   `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Fields []Field `gorm:"foreignKey:VenueID" json:"fields,omitempty"`
}
