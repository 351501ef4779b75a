package domain

import "errors"

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDuplicateBadge    = errors.New("badge already registered")
	ErrDuplicateName     = errors.New("name already exists")
	ErrDuplicateSerial   = errors.New("serial number already registered")
	ErrDuplicateDocument = errors.New("document already registered")
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
)
