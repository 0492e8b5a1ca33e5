package repository

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrVersionConflict     = errors.New("record was modified by another request")
)
