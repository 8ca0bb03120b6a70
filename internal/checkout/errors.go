package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidDetails     = errors.New("invalid shipping details")
	ErrSubmissionFailed   = errors.New("order submission failed")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)
