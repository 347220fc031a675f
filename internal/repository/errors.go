package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches a lookup or a scoped update.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
