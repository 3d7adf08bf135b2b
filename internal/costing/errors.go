package costing

import "errors"

var (
	// ErrInvalidInput reports a missing, non-numeric or non-positive scalar.
	ErrInvalidInput = errors.New("costing: invalid input")
	// ErrIncompatibleUnits reports that no conversion path exists between two units.
	ErrIncompatibleUnits = errors.New("costing: incompatible units")
	// ErrValidation reports an empty required text field or an empty ingredient list.
	ErrValidation = errors.New("costing: validation failed")
)
