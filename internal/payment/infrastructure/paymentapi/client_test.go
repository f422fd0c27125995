package paymentapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	payment "bluemoon-portal/internal/payment/domain"
)

func TestGetInvoiceDecodesRecord(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42, "amount": 1500000, "feetype": "Phí dịch vụ", "transaction_ref": "TX-42"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL + "/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	invoice, err := client.GetInvoice(context.Background(), "42")
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if gotPath != "/payments/42" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if invoice.ID != "42" || invoice.Amount != 1500000 || invoice.FeeType != "Phí dịch vụ" || invoice.TransactionRef != "TX-42" {
		t.Fatalf("unexpected invoice %+v", invoice)
	}
}

func TestGetInvoiceOptionalFieldsAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "inv-7", "amount": 250000}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	invoice, err := client.GetInvoice(context.Background(), "inv-7")
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if invoice.FeeType != "" || invoice.TransactionRef != "" {
		t.Fatalf("expected empty optional fields, got %+v", invoice)
	}
}

func TestGetInvoiceFailuresAreNotFound(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status 404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
		"status 500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":`))
		},
		"missing amount": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "1"}`))
		},
		"negative amount": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "1", "amount": -5}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			client, err := NewClient(server.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			if _, err := client.GetInvoice(context.Background(), "1"); !errors.Is(err, payment.ErrInvoiceNotFound) {
				t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
			}
		})
	}
}

func TestGetInvoiceTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(url)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.GetInvoice(context.Background(), "1"); !errors.Is(err, payment.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
