package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrReportNotFound  = errors.New("report not found")
	ErrActionNotFound  = errors.New("action not found")
	ErrInvalidPosition = errors.New("invalid action position")
)
