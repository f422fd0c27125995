package paymentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	payment "bluemoon-portal/internal/payment/domain"
)

// Client reads invoices from the external payment service.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets a per-request deadline. Zero means no deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// NewClient constructs a payment service client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("paymentapi: empty base url")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type invoiceResponse struct {
	ID             json.RawMessage `json:"id"`
	Amount         *float64        `json:"amount"`
	FeeType        *string         `json:"feetype"`
	TransactionRef *string         `json:"transaction_ref"`
}

// GetInvoice fetches GET {base}/payments/{id}.
// Every failure wraps payment.ErrInvoiceNotFound.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (payment.Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return payment.Invoice{}, payment.ErrEmptyInvoiceID
	}
	var resp invoiceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/payments/"+url.PathEscape(invoiceID), &resp); err != nil {
		return payment.Invoice{}, fmt.Errorf("%w: %v", payment.ErrInvoiceNotFound, err)
	}
	invoice, err := resp.toDomain(invoiceID)
	if err != nil {
		return payment.Invoice{}, fmt.Errorf("%w: %v", payment.ErrInvoiceNotFound, err)
	}
	return invoice, nil
}

func (r invoiceResponse) toDomain(requestedID string) (payment.Invoice, error) {
	if r.Amount == nil {
		return payment.Invoice{}, errors.New("missing amount")
	}
	id := decodeID(r.ID)
	if id == "" {
		id = requestedID
	}
	invoice := payment.Invoice{ID: id, Amount: *r.Amount}
	if r.FeeType != nil {
		invoice.FeeType = *r.FeeType
	}
	if r.TransactionRef != nil {
		invoice.TransactionRef = *r.TransactionRef
	}
	if err := invoice.Validate(); err != nil {
		return payment.Invoice{}, err
	}
	return invoice, nil
}

// decodeID accepts both string and numeric ids.
func decodeID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

func (c *Client) doJSON(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paymentapi: http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
