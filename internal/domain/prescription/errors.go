package prescription

import "errors"

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrNotRefillable        = errors.New("prescription cannot be refilled")
	ErrNotCancellable       = errors.New("only active prescriptions can be cancelled")
	ErrInvalidRoute         = errors.New("invalid route of administration")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrExpiryBeforeIssue    = errors.New("expiry date must be after issue date")
)
