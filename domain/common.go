package domain

import (
	"errors"
	"fmt"
)

const (
	RoleUser = "user"

	// TimeLayout is the wire format of log and schedule timestamps, e.g. "08:30:00 21-03-2025".
	TimeLayout = "15:04:05 02-01-2006"
	DateLayout = "02-01-2006"
)

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("storage unavailable")
)

var (
	MessageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = fmt.Errorf("failed to parse UUID: %w", ErrValidation)
	ErrUserNotAllowed = fmt.Errorf("user not allowed: %w", ErrForbidden)
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrInvalidTime    = fmt.Errorf("time must use format HH:MM:SS DD-MM-YYYY: %w", ErrValidation)
	ErrInvalidDate    = fmt.Errorf("date must use format DD-MM-YYYY: %w", ErrValidation)
)

// Unavailable marks a storage failure so that callers can classify it.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
