package catalog

import "errors"

// ErrPantryNotFound is returned when no pantry carries the requested slug
var ErrPantryNotFound = errors.New("pantry not found")
