package domain

import "errors"

// Validation failures. Callers receive these wrapped with detail; use errors.Is.
var (
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidDepth          = errors.New("invalid depth")
	ErrUnknownVariableGroup  = errors.New("unknown variable group")
	ErrInvalidStation        = errors.New("invalid station id")
	ErrUnknownStation        = errors.New("unknown station")
	ErrNoData                = errors.New("no data for period")
	ErrSoilParamsUnavailable = errors.New("soil hydraulic parameters not configured")
)
