package models

import "errors"

// ErrNoActiveCycle is returned when a household has no primary income
// obligation to anchor a budget cycle on. Callers render a setup prompt
// instead of a misleading zero-value projection.
var ErrNoActiveCycle = errors.New("no active budget cycle")

// ErrNotFound is returned when a requested row does not exist or belongs to
// a different household.
var ErrNotFound = errors.New("not found")
