package application

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"bluemoon-portal/internal/observability/metrics"
	payment "bluemoon-portal/internal/payment/domain"
)

// ErrNoRead is returned by Wait when no invoice read is pending or settled.
var ErrNoRead = errors.New("payment view: no read issued")

// InvoiceFetcher reads one invoice by id.
type InvoiceFetcher interface {
	GetInvoice(ctx context.Context, invoiceID string) (payment.Invoice, error)
}

// View drives the payment display state for one mounted page.
type View struct {
	fetcher InvoiceFetcher
	payee   payment.Payee
	logger  *log.Logger

	mu         sync.Mutex
	started    bool
	closed     bool
	invoiceID  string
	generation uint64
	state      payment.DisplayState
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewView constructs a View in the Loading state.
func NewView(fetcher InvoiceFetcher, payee payment.Payee, logger *log.Logger) (*View, error) {
	if fetcher == nil {
		return nil, errors.New("payment view: nil fetcher")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &View{
		fetcher: fetcher,
		payee:   payee,
		logger:  logger,
		state:   payment.NewLoadingState(),
	}, nil
}

// SetInvoiceID points the view at an invoice and reports whether a read was issued.
// A read is issued once per change of id; an empty id never issues one.
func (v *View) SetInvoiceID(ctx context.Context, invoiceID string) bool {
	invoiceID = strings.TrimSpace(invoiceID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	if v.started && invoiceID == v.invoiceID {
		return false
	}
	v.started = true
	v.invoiceID = invoiceID
	v.generation++
	v.state = payment.NewLoadingState()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	if invoiceID == "" {
		v.done = nil
		return false
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.cancel = cancel
	v.done = done
	go v.fetch(fetchCtx, v.generation, invoiceID, done)
	return true
}

func (v *View) fetch(ctx context.Context, generation uint64, invoiceID string, done chan struct{}) {
	defer close(done)
	start := time.Now()
	invoice, err := v.fetcher.GetInvoice(ctx, invoiceID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || generation != v.generation {
		metrics.ObserveInvoiceFetch(metrics.ResultDropped, time.Since(start))
		v.logger.Printf("payment view: dropped response invoice=%s", invoiceID)
		return
	}
	if err != nil {
		metrics.ObserveInvoiceFetch(metrics.ResultError, time.Since(start))
		v.logger.Printf("payment view: fetch error invoice=%s: %v", invoiceID, err)
		v.state, _ = v.state.Fail(payment.NotFoundMessage)
		return
	}
	metrics.ObserveInvoiceFetch(metrics.ResultSuccess, time.Since(start))
	v.state, _ = v.state.Resolve(payment.Merge(invoice, v.payee))
}

// State returns the current display state.
func (v *View) State() payment.DisplayState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// InvoiceID returns the id the view currently points at.
func (v *View) InvoiceID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.invoiceID
}

// Wait blocks until the current read settles.
func (v *View) Wait(ctx context.Context) (payment.DisplayState, error) {
	v.mu.Lock()
	done := v.done
	v.mu.Unlock()
	if done == nil {
		return v.State(), ErrNoRead
	}
	select {
	case <-done:
		return v.State(), nil
	case <-ctx.Done():
		return v.State(), ctx.Err()
	}
}

// Close unmounts the view; a pending read is cancelled and its result dropped.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
