package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldbook/internal/apperr"
)

// forUpdate locks the selected rows until the surrounding transaction ends.
// Dialects without row locks ignore it.
var forUpdate = clause.Locking{Strength: "UPDATE"}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	default:
		return err
	}
}
