package payment

const (
	DefaultAccountName   = "CÔNG TY QUẢN LÝ BLUE MOON"
	DefaultAccountNumber = "999988887777"
)

// Payee holds the static institution data printed on every payment card.
// The payment service does not supply payee data per invoice.
type Payee struct {
	AccountName   string `yaml:"account_name"`
	AccountNumber string `yaml:"account_number"`
}

// DefaultPayee returns the built-in payee constants.
func DefaultPayee() Payee {
	return Payee{AccountName: DefaultAccountName, AccountNumber: DefaultAccountNumber}
}

// PaymentDetails is the render-ready projection of an invoice merged with the payee.
type PaymentDetails struct {
	InvoiceID      string  `json:"id"`
	TransactionRef string  `json:"transaction_ref,omitempty"`
	Amount         string  `json:"amount"`
	AmountValue    float64 `json:"amount_value"`
	FeeType        string  `json:"feetype"`
	AccountName    string  `json:"account_name"`
	AccountNumber  string  `json:"account_number"`
}

// Merge combines a fetched invoice with the payee constants.
func Merge(invoice Invoice, payee Payee) PaymentDetails {
	return PaymentDetails{
		InvoiceID:      invoice.ID,
		TransactionRef: invoice.TransactionRef,
		Amount:         FormatAmount(invoice.Amount),
		AmountValue:    invoice.Amount,
		FeeType:        FeeLabel(invoice.FeeType),
		AccountName:    payee.AccountName,
		AccountNumber:  payee.AccountNumber,
	}
}
