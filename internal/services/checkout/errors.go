package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrAlreadyConfirmed     = errors.New("order already confirmed")
	ErrPaymentDeclined      = errors.New("payment declined")
)

// ExternalWriteError wraps a failed best-effort write to an outside store.
type ExternalWriteError struct {
	Op  string
	Err error
}

func (e *ExternalWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalWriteError) Unwrap() error {
	return e.Err
}
