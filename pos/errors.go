/*
errors.go - Centralized error types for the back office domain

PURPOSE:
  All domain error types in one place for consistency and discoverability.
  The store and the API layer map to and from these; nothing is ever
  silently swallowed.

ERROR CATEGORIES:
  1. Not-found errors - referenced ids that do not exist
  2. Business rule violations - insufficient stock, invalid quantity
  3. Integrity violations - duplicate unique keys (customer phone)
  4. Transient conflicts - concurrent writers, retried internally

USAGE:
  Callers classify with errors.Is or the helpers below:

    if pos.IsNotFound(err) { ... 404 ... }
    var stockErr *pos.InsufficientStockError
    if errors.As(err, &stockErr) { ... stockErr.Available ... }
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrProductNotFound is returned when a referenced product doesn't exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrCustomerNotFound is returned when a referenced customer doesn't exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSaleNotFound is returned when a sale id has no ledger record.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrInsufficientStock is returned when requested quantity exceeds the
	// current stock. Recoverable: the caller may retry with less.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for zero or negative sale quantities
	// and negative restock quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrDuplicatePhone is returned when inserting a customer whose phone
	// number already exists.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrInvalidPeriod is returned for malformed report periods
	// (month outside 1-12, unparseable period string).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrConflict is returned when concurrent access prevents an operation
	// from completing. Transient; the ledger retries a bounded number of
	// times before surfacing it.
	ErrConflict = errors.New("concurrent modification detected")

	// ErrUnauthorized is returned when admin credentials don't match.
	ErrUnauthorized = errors.New("invalid credentials")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError provides details about a stock shortage.
type InsufficientStockError struct {
	ProductID ProductID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrSaleNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// or a recoverable business condition.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrDuplicatePhone) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
