package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldbook/internal/apperr"
	"fieldbook/internal/models"
)

type VenueRepo struct{ db *gorm.DB }

func NewVenueRepo(db *gorm.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

func (r *VenueRepo) List(ctx context.Context) ([]models.Venue, error) {
	var out []models.Venue
	err := r.db.WithContext(ctx).Preload("Fields").Order("id ASC").Find(&out).Error
	return out, err
}

// ByID loads the venue row only.
func (r *VenueRepo) ByID(ctx context.Context, id uint) (*models.Venue, error) {
	var v models.Venue
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// Detail loads the venue with fields, their bookings and rosters.
func (r *VenueRepo) Detail(ctx context.Context, id uint) (*models.Venue, error) {
	var v models.Venue
	err := r.db.WithContext(ctx).
		Preload("Fields.Bookings.Players").
		First(&v, id).Error
	if err != nil {
		return nil, translate(err)
	}
	for i := range v.Fields {
		countPlayers(v.Fields[i].Bookings)
	}
	return &v, nil
}

func (r *VenueRepo) Create(ctx context.Context, v *models.Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VenueRepo) Update(ctx context.Context, v *models.Venue) error {
	res := r.db.WithContext(ctx).Model(&models.Venue{}).Where("id = ?", v.ID).Updates(map[string]any{
		"name":    v.Name,
		"address": v.Address,
		"phone":   v.Phone,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the venue, its fields, their bookings and roster rows.
func (r *VenueRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := tx.Model(&models.Field{}).Select("id").Where("venue_id = ?", id)
		bookings := tx.Model(&models.Booking{}).Select("id").Where("field_id IN (?)", fields)

		if err := tx.Where("booking_id IN (?)", bookings).Delete(&models.BookingPlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("field_id IN (?)", fields).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("venue_id = ?", id).Delete(&models.Field{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Venue{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.ErrNotFound
		}
		return nil
	})
}
