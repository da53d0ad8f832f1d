package services

import "errors"

// Service errors. HTTP handlers map these to API errors.
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrReloadInProgress = errors.New("dataset reload already in progress")

	ErrPageNotFound  = errors.New("page not found")
	ErrInvalidType   = errors.New("invalid product type")
	ErrInvalidField  = errors.New("invalid field")
	ErrInvalidMetric = errors.New("invalid metric")
	ErrInvalidPage   = errors.New("invalid page number")
)
