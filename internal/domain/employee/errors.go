package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrCorruptCollection = errors.New("stored employee collection is corrupted")
	ErrInvalidDepartment = errors.New("department must be Analytics or Tech")
	ErrInvalidPosition   = errors.New("position must be Junior, Medior or Senior")
	ErrInvalidPhone      = errors.New("phone number must be exactly 10 digits")
	ErrMinimumAge        = errors.New("employee must be at least 18 years old")
)
