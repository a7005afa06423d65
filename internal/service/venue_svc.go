package service

import (
	"context"
	"log/slog"

	"fieldbook/internal/authz"
	"fieldbook/internal/models"
)

type VenueInput struct {
	Name    string `json:"name" validate:"required,max=191"`
	Address string `json:"address" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=32"`
}

type VenueSvc struct {
	venues VenueStore
	logger *slog.Logger
}

func NewVenueSvc(venues VenueStore, logger *slog.Logger) *VenueSvc {
	return &VenueSvc{venues: venues, logger: defaultLogger(logger)}
}

func (s *VenueSvc) List(ctx context.Context) ([]models.Venue, error) {
	return s.venues.List(ctx)
}

func (s *VenueSvc) Detail(ctx context.Context, id uint) (*models.Venue, error) {
	return s.venues.Detail(ctx, id)
}

func (s *VenueSvc) Create(ctx context.Context, p authz.Principal, in VenueInput) (v *models.Venue, err error) {
	logger := serviceLogger(s.logger, "VenueSvc", "Create", "principal_id", p.ID)
	defer func() { logResult(ctx, logger, err, "venue created") }()

	if err = authz.Authorize(p, authz.CreateVenue, 0); err != nil {
		return nil, err
	}
	if err = check(in); err != nil {
		return nil, err
	}
	v = &models.Venue{Name: in.Name, Address: in.Address, Phone: in.Phone, UserID: p.ID}
	if err = s.venues.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VenueSvc) Update(ctx context.Context, p authz.Principal, id uint, in VenueInput) (v *models.Venue, err error) {
	logger := serviceLogger(s.logger, "VenueSvc", "Update", "principal_id", p.ID, "venue_id", id)
	defer func() { logResult(ctx, logger, err, "venue updated") }()

	v, err = s.owned(ctx, p, authz.UpdateVenue, id)
	if err != nil {
		return nil, err
	}
	if err = check(in); err != nil {
		return nil, err
	}
	v.Name, v.Address, v.Phone = in.Name, in.Address, in.Phone
	if err = s.venues.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VenueSvc) Delete(ctx context.Context, p authz.Principal, id uint) (err error) {
	logger := serviceLogger(s.logger, "VenueSvc", "Delete", "principal_id", p.ID, "venue_id", id)
	defer func() { logResult(ctx, logger, err, "venue deleted") }()

	if _, err = s.owned(ctx, p, authz.DeleteVenue, id); err != nil {
		return err
	}
	return s.venues.Delete(ctx, id)
}

func (s *VenueSvc) owned(ctx context.Context, p authz.Principal, action authz.Action, id uint) (*models.Venue, error) {
	v, err := s.venues.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(p, action, v.UserID); err != nil {
		return nil, err
	}
	return v, nil
}
