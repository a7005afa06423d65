package models

import "time"

type FieldType string

const (
	FieldSoccer     FieldType = "soccer"
	FieldMiniSoccer FieldType = "minisoccer"
	FieldFutsal     FieldType = "futsal"
	FieldBasketball FieldType = "basketball"
	FieldVolleyball FieldType = "volleyball"
)

// FieldTypes lists the accepted field types in display order.
var FieldTypes = []FieldType{FieldSoccer, FieldMiniSoccer, FieldFutsal, FieldBasketball, FieldVolleyball}

func (t FieldType) Valid() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

type Field struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name    string    `gorm:"size:191;not null" json:"name"`
	Type    FieldType `gorm:"type:varchar(16);not null" json:"type"`
	VenueID uint      `gorm:"index;not null" json:"venue_id"`

	Venue    *Venue    `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	Bookings []Booking `gorm:"foreignKey:FieldID" json:"bookings,omitempty"`
}
