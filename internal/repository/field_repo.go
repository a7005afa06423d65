package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldbook/internal/apperr"
	"fieldbook/internal/models"
)

type FieldRepo struct{ db *gorm.DB }

func NewFieldRepo(db *gorm.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

func (r *FieldRepo) ListByVenue(ctx context.Context, venueID uint) ([]models.Field, error) {
	var out []models.Field
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Where("venue_id = ?", venueID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// ByVenue loads a field only if it belongs to venueID.
func (r *FieldRepo) ByVenue(ctx context.Context, id, venueID uint) (*models.Field, error) {
	var f models.Field
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Bookings.Players").
		Where("venue_id = ?", venueID).
		First(&f, id).Error
	if err != nil {
		return nil, translate(err)
	}
	countPlayers(f.Bookings)
	return &f, nil
}

func (r *FieldRepo) ByID(ctx context.Context, id uint) (*models.Field, error) {
	var f models.Field
	if err := r.db.WithContext(ctx).Preload("Venue").First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *FieldRepo) Create(ctx context.Context, f *models.Field) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FieldRepo) Update(ctx context.Context, f *models.Field) error {
	res := r.db.WithContext(ctx).Model(&models.Field{}).Where("id = ?", f.ID).Updates(map[string]any{
		"name": f.Name,
		"type": f.Type,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the field, its bookings and their roster rows.
func (r *FieldRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := tx.Model(&models.Booking{}).Select("id").Where("field_id = ?", id)
		if err := tx.Where("booking_id IN (?)", bookings).Delete(&models.BookingPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("field_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Field{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}
