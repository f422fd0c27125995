package http

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	paymentapp "bluemoon-portal/internal/payment/application"
	payment "bluemoon-portal/internal/payment/domain"
)

const apiPrefix = "/api/v1/payments/"

// APIHandler exposes the payment display state as JSON.
type APIHandler struct {
	fetcher paymentapp.InvoiceFetcher
	payee   payment.Payee
	logger  *log.Logger
}

// NewAPIHandler constructs an APIHandler.
func NewAPIHandler(fetcher paymentapp.InvoiceFetcher, payee payment.Payee, logger *log.Logger) (*APIHandler, error) {
	if fetcher == nil {
		return nil, errors.New("payment api handler: nil fetcher")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &APIHandler{fetcher: fetcher, payee: payee, logger: logger}, nil
}

type viewResponse struct {
	InvoiceID string                  `json:"invoice_id"`
	Phase     payment.Phase           `json:"phase"`
	Message   string                  `json:"message,omitempty"`
	Details   *payment.PaymentDetails `json:"details,omitempty"`
}

// ServeHTTP handles GET /api/v1/payments/{invoiceId}/view.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	invoiceID, action, ok := splitInvoicePath(r.URL.Path, apiPrefix)
	if !ok || action != "view" || strings.TrimSpace(invoiceID) == "" {
		http.Error(w, "invoice id required", http.StatusBadRequest)
		return
	}

	state := loadState(r.Context(), h.fetcher, h.payee, h.logger, invoiceID)
	resp := viewResponse{
		InvoiceID: invoiceID,
		Phase:     state.Phase(),
		Message:   state.Message(),
	}
	status := http.StatusOK
	switch state.Phase() {
	case payment.PhaseLoaded:
		details := state.Details()
		resp.Details = &details
	case payment.PhaseError:
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
