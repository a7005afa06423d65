package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fieldbook/internal/apperr"
	"fieldbook/internal/models"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func countPlayers(bs []models.Booking) {
	for i := range bs {
		bs[i].PlayersCount = len(bs[i].Players)
	}
}

func overlapping(tx *gorm.DB, fieldID uint, start, end time.Time, exceptID uint) (bool, error) {
	q := tx.Model(&models.Booking{}).
		Where("field_id = ?", fieldID).
		Where("play_date_start < ? AND play_date_end > ?", end, start)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateWithNoOverlap locks the field row so two bookings for the same slot
// cannot both be inserted.
func (r *BookingRepo) CreateWithNoOverlap(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f models.Field
		if err := tx.Clauses(forUpdate).First(&f, b.FieldID).Error; err != nil {
			return translate(err)
		}
		taken, err := overlapping(tx, b.FieldID, b.PlayDateStart, b.PlayDateEnd, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperr.ErrSlotTaken
		}
		return tx.Omit("Players").Create(b).Error
	})
}

func (r *BookingRepo) ByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// Detail loads a booking with its field, venue and roster.
func (r *BookingRepo) Detail(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).
		Preload("Field.Venue").
		Preload("Players").
		First(&b, id).Error
	if err != nil {
		return nil, translate(err)
	}
	b.PlayersCount = len(b.Players)
	return &b, nil
}

func (r *BookingRepo) List(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Field.Venue").
		Preload("Players").
		Order("play_date_start ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	countPlayers(out)
	return out, nil
}

// Schedules returns the bookings userID created or joined, soonest first.
func (r *BookingRepo) Schedules(ctx context.Context, userID uint) ([]models.Booking, error) {
	db := r.db.WithContext(ctx)
	joined := db.Model(&models.BookingPlayer{}).Select("booking_id").Where("user_id = ?", userID)

	var out []models.Booking
	err := db.
		Preload("Field.Venue").
		Preload("Players").
		Where("user_id = ? OR id IN (?)", userID, joined).
		Order("play_date_start ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	countPlayers(out)
	return out, nil
}

// AttachPlayer adds userID to the roster. The booking row stays locked for the
// whole read-count-insert sequence, so the roster can never outgrow capacity.
func (r *BookingRepo) AttachPlayer(ctx context.Context, bookingID, userID uint) (alreadyJoined bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(forUpdate).First(&b, bookingID).Error; err != nil {
			return translate(err)
		}

		var member int64
		if err := tx.Model(&models.BookingPlayer{}).
			Where("booking_id = ? AND user_id = ?", bookingID, userID).
			Count(&member).Error; err != nil {
			return err
		}
		if member > 0 {
			alreadyJoined = true
			return nil
		}

		var size int64
		if err := tx.Model(&models.BookingPlayer{}).Where("booking_id = ?", bookingID).Count(&size).Error; err != nil {
			return err
		}
		if size >= int64(b.TotalPlayers) {
			return apperr.ErrBookingFull
		}
		return tx.Create(&models.BookingPlayer{BookingID: bookingID, UserID: userID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true, nil
	}
	return alreadyJoined, err
}

// DetachPlayer removes userID from the roster. removed is false when the user
// was not a member.
func (r *BookingRepo) DetachPlayer(ctx context.Context, bookingID, userID uint) (removed bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(forUpdate).First(&b, bookingID).Error; err != nil {
			return translate(err)
		}
		res := tx.Where("booking_id = ? AND user_id = ?", bookingID, userID).Delete(&models.BookingPlayer{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0
		return nil
	})
	return removed, err
}

// Update overwrites the slot and capacity of a booking. The field and roster
// are left alone.
func (r *BookingRepo) Update(ctx context.Context, id uint, start, end time.Time, capacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(forUpdate).First(&b, id).Error; err != nil {
			return translate(err)
		}

		var size int64
		if err := tx.Model(&models.BookingPlayer{}).Where("booking_id = ?", id).Count(&size).Error; err != nil {
			return err
		}
		if int64(capacity) < size {
			return apperr.ErrCapacityBelowRoster
		}

		taken, err := overlapping(tx, b.FieldID, start, end, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.ErrSlotTaken
		}

		return tx.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]any{
			"play_date_start": start,
			"play_date_end":   end,
			"total_players":   capacity,
		}).Error
	})
}

// Delete removes the booking and its roster rows.
func (r *BookingRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&models.BookingPlayer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Booking{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}
