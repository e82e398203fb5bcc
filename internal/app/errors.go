package service

import "errors"

// Sentinel kinds returned by Service operations.
var (
	ErrMonthNotFound = errors.New("month not found")
	ErrLoadMatchdays = errors.New("load matchdays failed")
)
