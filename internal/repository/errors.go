// Package repository defines error types that are reused across
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios with errors.Is without inspecting driver errors.
package repository

import "errors"

// ErrReservationNotFound is returned when a lookup by id matches no
// row. Handlers translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateKey is returned when an insert collides with the unique
// natural-key index. The service layer reacts by re-reading the row
// that won the race, keeping creation idempotent.
var ErrDuplicateKey = errors.New("duplicate natural key")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
