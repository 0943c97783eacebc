package xerrors

import "errors"

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrSessionNotFound = errors.New("table session not found")
	ErrVariantRequired = errors.New("price variant must be selected")

	ErrNotFound      = errors.New("row not found")
	ErrInvalidStatus = errors.New("invalid status")

	ErrMonitorStopped = errors.New("monitor stopped")
)
