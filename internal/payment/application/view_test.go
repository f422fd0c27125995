package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	payment "bluemoon-portal/internal/payment/domain"
)

type stubFetcher struct {
	mu       sync.Mutex
	calls    map[string]int
	invoices map[string]payment.Invoice
	block    map[string]chan struct{}
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		calls:    make(map[string]int),
		invoices: make(map[string]payment.Invoice),
		block:    make(map[string]chan struct{}),
	}
}

func (s *stubFetcher) GetInvoice(ctx context.Context, invoiceID string) (payment.Invoice, error) {
	s.mu.Lock()
	s.calls[invoiceID]++
	invoice, ok := s.invoices[invoiceID]
	gate := s.block[invoiceID]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return payment.Invoice{}, fmt.Errorf("%w: http 404", payment.ErrInvoiceNotFound)
	}
	return invoice, nil
}

func (s *stubFetcher) callCount(invoiceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[invoiceID]
}

func (s *stubFetcher) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func waitState(t *testing.T, view *View) payment.DisplayState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	state, err := view.Wait(ctx)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	return state
}

func TestViewLoadsInvoiceWithPayeeConstants(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.invoices["inv-1"] = payment.Invoice{ID: "inv-1", Amount: 1500000, FeeType: "Phí dịch vụ"}

	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	defer view.Close()

	if !view.SetInvoiceID(context.Background(), "inv-1") {
		t.Fatalf("expected a read to be issued")
	}
	state := waitState(t, view)
	if state.Phase() != payment.PhaseLoaded {
		t.Fatalf("expected loaded, got %s", state.Phase())
	}
	details := state.Details()
	if details.Amount != "1.500.000 VND" || details.FeeType != "Phí dịch vụ" {
		t.Fatalf("unexpected details %+v", details)
	}
	if details.AccountName != payment.DefaultAccountName || details.AccountNumber != payment.DefaultAccountNumber {
		t.Fatalf("expected payee constants, got %+v", details)
	}
}

func TestViewErrorState(t *testing.T) {
	fetcher := newStubFetcher()
	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	defer view.Close()

	view.SetInvoiceID(context.Background(), "missing")
	state := waitState(t, view)
	if state.Phase() != payment.PhaseError {
		t.Fatalf("expected error, got %s", state.Phase())
	}
	if state.Message() == "" {
		t.Fatalf("expected non-empty message")
	}
	if state.Details() != (payment.PaymentDetails{}) {
		t.Fatalf("expected no details in error state")
	}
	if fetcher.callCount("missing") != 1 {
		t.Fatalf("expected exactly one read, got %d", fetcher.callCount("missing"))
	}
}

func TestViewWithoutIDNeverReads(t *testing.T) {
	fetcher := newStubFetcher()
	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	defer view.Close()

	if view.SetInvoiceID(context.Background(), "") {
		t.Fatalf("expected no read for empty id")
	}
	if _, err := view.Wait(context.Background()); !errors.Is(err, ErrNoRead) {
		t.Fatalf("expected ErrNoRead, got %v", err)
	}
	if view.State().Phase() != payment.PhaseLoading {
		t.Fatalf("expected loading, got %s", view.State().Phase())
	}
	if fetcher.totalCalls() != 0 {
		t.Fatalf("expected no reads, got %d", fetcher.totalCalls())
	}
	if view.InvoiceID() != "" {
		t.Fatalf("expected empty invoice id, got %q", view.InvoiceID())
	}
}

func TestViewReadsOncePerIDChange(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.invoices["a"] = payment.Invoice{ID: "a", Amount: 1}
	fetcher.invoices["b"] = payment.Invoice{ID: "b", Amount: 2}

	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	defer view.Close()

	ctx := context.Background()
	view.SetInvoiceID(ctx, "a")
	waitState(t, view)
	if view.SetInvoiceID(ctx, "a") {
		t.Fatalf("same id must not issue a new read")
	}
	if !view.SetInvoiceID(ctx, "b") {
		t.Fatalf("changed id must issue a read")
	}
	state := waitState(t, view)
	if fetcher.callCount("a") != 1 || fetcher.callCount("b") != 1 {
		t.Fatalf("unexpected read counts a=%d b=%d", fetcher.callCount("a"), fetcher.callCount("b"))
	}
	if state.Details().InvoiceID != "b" {
		t.Fatalf("expected details for b, got %+v", state.Details())
	}
	if view.InvoiceID() != "b" {
		t.Fatalf("expected view to point at b, got %q", view.InvoiceID())
	}
}

func TestViewDropsStaleResponse(t *testing.T) {
	fetcher := newStubFetcher()
	gate := make(chan struct{})
	fetcher.block["slow"] = gate
	fetcher.invoices["slow"] = payment.Invoice{ID: "slow", Amount: 1}
	fetcher.invoices["fast"] = payment.Invoice{ID: "fast", Amount: 2}

	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	defer view.Close()

	ctx := context.Background()
	view.SetInvoiceID(ctx, "slow")
	view.SetInvoiceID(ctx, "fast")
	state := waitState(t, view)
	close(gate)

	// give the slow read time to complete and be discarded
	time.Sleep(20 * time.Millisecond)
	if state.Details().InvoiceID != "fast" || view.State().Details().InvoiceID != "fast" {
		t.Fatalf("expected fast details to stay, got %+v", view.State().Details())
	}
}

func TestViewCloseDropsLateResponse(t *testing.T) {
	fetcher := newStubFetcher()
	gate := make(chan struct{})
	fetcher.block["late"] = gate
	fetcher.invoices["late"] = payment.Invoice{ID: "late", Amount: 1}

	view, err := NewView(fetcher, payment.DefaultPayee(), nil)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	view.SetInvoiceID(context.Background(), "late")
	view.Close()
	close(gate)

	waitState(t, view)
	if view.State().Phase() != payment.PhaseLoading {
		t.Fatalf("closed view must not settle, got %s", view.State().Phase())
	}
	if view.SetInvoiceID(context.Background(), "other") {
		t.Fatalf("closed view must not issue reads")
	}
}

func TestNewViewRequiresFetcher(t *testing.T) {
	if _, err := NewView(nil, payment.DefaultPayee(), nil); err == nil {
		t.Fatalf("expected error for nil fetcher")
	}
}
