package geohash

import "errors"

var (
	// ErrInvalidPrecision is returned when a precision or hash length exceeds MaxPrecision.
	ErrInvalidPrecision = errors.New("geohash: invalid precision")

	// ErrInvalidSymbol is returned when a hash contains a byte outside the base32 alphabet.
	ErrInvalidSymbol = errors.New("geohash: invalid symbol")

	// ErrInvalidDirection is returned for a direction other than north, south, east or west.
	ErrInvalidDirection = errors.New("geohash: invalid direction")

	// ErrEndOfMap is returned when the adjacent cell would lie outside the grid.
	// It is an expected outcome at the poles and the antimeridian.
	ErrEndOfMap = errors.New("geohash: end of map")

	// ErrCellsLimitExceeded is returned when a region covers more cells than the caller allows.
	ErrCellsLimitExceeded = errors.New("geohash: cells limit exceeded")
)
