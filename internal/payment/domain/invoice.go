package payment

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// CurrencySuffix is appended to every formatted amount.
	CurrencySuffix = "VND"
	// UnknownFeeLabel is shown when the invoice carries no fee type.
	UnknownFeeLabel = "Phí không xác định"
)

var amountPrinter = message.NewPrinter(language.Vietnamese)

// Invoice is a read-only snapshot of an invoice owned by the payment service.
type Invoice struct {
	ID             string
	Amount         float64
	FeeType        string
	TransactionRef string
}

// Validate checks the fields the payment view relies on.
func (i Invoice) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return ErrEmptyInvoiceID
	}
	if i.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// FormatAmount renders an amount with Vietnamese digit grouping, e.g. "1.500.000 VND".
func FormatAmount(amount float64) string {
	return amountPrinter.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3))) + " " + CurrencySuffix
}

// FeeLabel returns the fee type or the unknown-fee sentinel.
func FeeLabel(feeType string) string {
	if strings.TrimSpace(feeType) == "" {
		return UnknownFeeLabel
	}
	return feeType
}
