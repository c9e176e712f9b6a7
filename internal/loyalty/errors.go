package loyalty

import "errors"

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidFormat is returned when a payload does not have the
	// expected dataset shape.
	ErrInvalidFormat = errors.New("invalid data format")
)
