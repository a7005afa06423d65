package service

import (
	"context"
	"log/slog"

	"fieldbook/internal/authz"
	"fieldbook/internal/models"
)

type FieldInput struct {
	Name string `json:"name" validate:"required,max=191"`
	Type string `json:"type" validate:"required,oneof=soccer minisoccer futsal basketball volleyball"`
}

type FieldSvc struct {
	venues VenueStore
	fields FieldStore
	logger *slog.Logger
}

func NewFieldSvc(venues VenueStore, fields FieldStore, logger *slog.Logger) *FieldSvc {
	return &FieldSvc{venues: venues, fields: fields, logger: defaultLogger(logger)}
}

func (s *FieldSvc) List(ctx context.Context, venueID uint) ([]models.Field, error) {
	return s.fields.ListByVenue(ctx, venueID)
}

func (s *FieldSvc) Detail(ctx context.Context, venueID, id uint) (*models.Field, error) {
	return s.fields.ByVenue(ctx, id, venueID)
}

func (s *FieldSvc) Create(ctx context.Context, p authz.Principal, venueID uint, in FieldInput) (f *models.Field, err error) {
	logger := serviceLogger(s.logger, "FieldSvc", "Create", "principal_id", p.ID, "venue_id", venueID)
	defer func() { logResult(ctx, logger, err, "field created") }()

	if err = s.authorizeVenue(ctx, p, authz.CreateField, venueID); err != nil {
		return nil, err
	}
	if err = check(in); err != nil {
		return nil, err
	}
	f = &models.Field{Name: in.Name, Type: models.FieldType(in.Type), VenueID: venueID}
	if err = s.fields.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FieldSvc) Update(ctx context.Context, p authz.Principal, venueID, id uint, in FieldInput) (f *models.Field, err error) {
	logger := serviceLogger(s.logger, "FieldSvc", "Update", "principal_id", p.ID, "venue_id", venueID, "field_id", id)
	defer func() { logResult(ctx, logger, err, "field updated") }()

	if err = s.authorizeVenue(ctx, p, authz.UpdateField, venueID); err != nil {
		return nil, err
	}
	if f, err = s.fields.ByVenue(ctx, id, venueID); err != nil {
		return nil, err
	}
	if err = check(in); err != nil {
		return nil, err
	}
	f.Name, f.Type = in.Name, models.FieldType(in.Type)
	if err = s.fields.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FieldSvc) Delete(ctx context.Context, p authz.Principal, venueID, id uint) (err error) {
	logger := serviceLogger(s.logger, "FieldSvc", "Delete", "principal_id", p.ID, "venue_id", venueID, "field_id", id)
	defer func() { logResult(ctx, logger, err, "field deleted") }()

	if err = s.authorizeVenue(ctx, p, authz.DeleteField, venueID); err != nil {
		return err
	}
	if _, err = s.fields.ByVenue(ctx, id, venueID); err != nil {
		return err
	}
	return s.fields.Delete(ctx, id)
}

// authorizeVenue resolves the owner of venueID and runs the gates against it.
func (s *FieldSvc) authorizeVenue(ctx context.Context, p authz.Principal, action authz.Action, venueID uint) error {
	v, err := s.venues.ByID(ctx, venueID)
	if err != nil {
		return err
	}
	return authz.Authorize(p, action, v.UserID)
}
