package models

import "time"

// Booking reserves a time slot on a field. Players is the roster of users who
// joined; its size never exceeds TotalPlayers.
type Booking struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	FieldID       uint      `gorm:"index;not null" json:"field_id"`
	PlayDateStart time.Time `gorm:"index;not null" json:"play_date_start"`
	PlayDateEnd   time.Time `gorm:"index;not null" json:"play_date_end"`
	TotalPlayers  int       `gorm:"not null" json:"total_players"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`

	Field   *Field `gorm:"foreignKey:FieldID" json:"field,omitempty"`
	Players []User `gorm:"many2many:booking_players" json:"players,omitempty"`

	PlayersCount int `gorm:"-" json:"players_count"`
}

// Full reports whether the roster reached capacity.
func (b Booking) Full() bool {
	return b.PlayersCount >= b.TotalPlayers
}

// BookingPlayer is the roster join table. The composite key keeps a user from
// joining the same booking twice.
type BookingPlayer struct {
	BookingID uint `gorm:"primaryKey"`
	UserID    uint `gorm:"primaryKey"`
	CreatedAt time.Time
}
