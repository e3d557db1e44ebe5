package backend

import "errors"

var (
	ErrNotFound           = errors.New("not_found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrUnknownKind        = errors.New("unknown_kind")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidSignature   = errors.New("invalid_signature")
	ErrUploadExpired      = errors.New("upload_expired")
	ErrTooManyRequests    = errors.New("too_many_requests")
)
