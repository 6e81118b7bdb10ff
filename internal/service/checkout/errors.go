package checkout

import (
	"errors"
	"fmt"
)

// Kind classifies a submission failure so callers can pattern-match without
// seeing raw transport errors.
type Kind string

const (
	// KindValidation: field-level problems, recoverable by editing input.
	KindValidation Kind = "validation"
	// KindEmptyCart: nothing to order, recoverable by adding items.
	KindEmptyCart Kind = "empty_cart"
	// KindAddressNotFound: stale saved-address selection.
	KindAddressNotFound Kind = "address_not_found"
	// KindSessionExpired: re-authentication required; the cart is preserved.
	KindSessionExpired Kind = "session_expired"
	// KindOrderCreate: the order header could not be created.
	KindOrderCreate Kind = "order_creation_failed"
	// KindLineCreate: the line batch failed and no order header exists;
	// safe to resubmit.
	KindLineCreate Kind = "line_creation_failed"
	// KindInconsistent: an order header exists but its lines do not. Logged
	// for manual reconciliation; the order must be treated as incomplete.
	KindInconsistent Kind = "inconsistent"
)

// Error is the only error type the orchestrator returns. State names the
// pipeline step that failed; Fields is set for validation kinds; OrderID is
// set for KindInconsistent so the incomplete order can be reconciled.
type Error struct {
	Kind    Kind
	State   State
	Fields  map[string]string
	OrderID string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("checkout %s (%s): %v", e.Kind, e.State, e.cause)
	}
	return fmt.Sprintf("checkout %s (%s)", e.Kind, e.State)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf extracts the failure kind from err, or "" when err did not come
// from the orchestrator.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// FieldsOf extracts field-keyed validation messages, or nil.
func FieldsOf(err error) map[string]string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}
