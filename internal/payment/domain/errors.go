package payment

import "errors"

var (
	// ErrInvoiceNotFound covers not-found, transport failure and malformed responses.
	ErrInvoiceNotFound = errors.New("payment: invoice not found")
	// ErrEmptyInvoiceID is returned when no invoice identifier is present.
	ErrEmptyInvoiceID = errors.New("payment: empty invoice id")
	// ErrNegativeAmount is returned when the service reports a negative amount.
	ErrNegativeAmount = errors.New("payment: negative amount")
	// ErrStateSettled is returned when a settled display state is transitioned again.
	ErrStateSettled = errors.New("payment: display state already settled")
)

// NotFoundMessage is the user-facing text for ErrInvoiceNotFound.
const NotFoundMessage = "Không tìm thấy hóa đơn."
