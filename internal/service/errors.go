package service

import "errors"

var (
	// ErrInvalidInput marks request values rejected before reaching the oven.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLastProfile is returned when deleting the only remaining profile.
	ErrLastProfile = errors.New("cannot delete the only profile")
)
