package application

import (
	"errors"
	"fmt"

	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	"github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrPersistence is surfaced when a transaction could not commit. The
	// underlying cause stays wrapped for logging but is never shown to API
	// callers.
	ErrPersistence = errors.New("order could not be persisted")
)

// IsBusinessFailure reports whether err is one of the expected outcomes the
// caller should branch on, as opposed to a persistence fault.
func IsBusinessFailure(err error) bool {
	return errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, ports.ErrNotFound) ||
		errors.Is(err, ports.ErrInvalidOrderID) ||
		errors.Is(err, ErrInvalidInput)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrEmptyOrder) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if IsBusinessFailure(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
