package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"bluemoon-portal/internal/audit"
	"bluemoon-portal/internal/auth"
	"bluemoon-portal/internal/observability/metrics"
	paymentapp "bluemoon-portal/internal/payment/application"
	payment "bluemoon-portal/internal/payment/domain"
)

// Handler serves per-invoice payment pages under one dashboard.
type Handler struct {
	nav         payment.NavContext
	fetcher     paymentapp.InvoiceFetcher
	payee       payment.Payee
	auditLogger audit.Logger
	logger      *log.Logger
	page        *template.Template
	qrImageURL  string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithQRImageURL sets the QR image location.
func WithQRImageURL(url string) Option {
	return func(h *Handler) {
		if url != "" {
			h.qrImageURL = url
		}
	}
}

// WithAuditLogger records a payment.view entry per rendered invoice.
func WithAuditLogger(logger audit.Logger) Option {
	return func(h *Handler) { h.auditLogger = logger }
}

// NewHandler constructs a payment page handler for nav.
func NewHandler(nav payment.NavContext, fetcher paymentapp.InvoiceFetcher, payee payment.Payee, logger *log.Logger, opts ...Option) (*Handler, error) {
	if fetcher == nil {
		return nil, errors.New("payment handler: nil fetcher")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		nav:        nav,
		fetcher:    fetcher,
		payee:      payee,
		logger:     logger,
		page:       page,
		qrImageURL: "/static/qr.png",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP handles GET {prefix}{invoiceId}/qr|slip.pdf|slip.xlsx.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	invoiceID, action, ok := splitInvoicePath(r.URL.Path, h.nav.RoutePrefix())
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "qr":
		h.handlePage(w, r, invoiceID)
	case "slip.pdf":
		h.handleSlip(w, r, invoiceID, "pdf")
	case "slip.xlsx":
		h.handleSlip(w, r, invoiceID, "xlsx")
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request, invoiceID string) {
	state := loadState(r.Context(), h.fetcher, h.payee, h.logger, invoiceID)
	data := pageData{
		Phase:      state.Phase(),
		Message:    state.Message(),
		Details:    state.Details(),
		QRImageURL: h.qrImageURL,
		BackURL:    backURL(r, h.nav),
		SlipBase:   h.nav.RoutePrefix() + url.PathEscape(invoiceID),
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Printf("payment render error: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	status := http.StatusOK
	if state.Phase() == payment.PhaseError {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())

	if state.Phase() == payment.PhaseLoaded {
		h.logAudit(r, invoiceID)
	}
}

func (h *Handler) handleSlip(w http.ResponseWriter, r *http.Request, invoiceID, format string) {
	state := loadState(r.Context(), h.fetcher, h.payee, h.logger, invoiceID)
	if state.Phase() != payment.PhaseLoaded {
		metrics.IncSlipExport(format, metrics.ResultError)
		http.Error(w, payment.NotFoundMessage, http.StatusNotFound)
		return
	}

	var (
		body        []byte
		err         error
		contentType string
	)
	switch format {
	case "pdf":
		body, err = BuildSlipPDF(state.Details())
		contentType = "application/pdf"
	default:
		body, err = BuildSlipXLSX(state.Details())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		metrics.IncSlipExport(format, metrics.ResultError)
		h.logger.Printf("payment slip %s error invoice=%s: %v", format, invoiceID, err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}
	metrics.IncSlipExport(format, metrics.ResultSuccess)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="payment-`+sanitizeFilename(invoiceID)+`.`+format+`"`)
	_, _ = w.Write(body)
}

func (h *Handler) logAudit(r *http.Request, invoiceID string) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{"context": h.nav.String()})
	audit.Record(r.Context(), h.auditLogger, audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       audit.ActionPaymentView,
		ResourceType: "invoice",
		ResourceID:   invoiceID,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}, h.logger)
}

// loadState mounts a view for one request and unmounts it on return.
func loadState(ctx context.Context, fetcher paymentapp.InvoiceFetcher, payee payment.Payee, logger *log.Logger, invoiceID string) payment.DisplayState {
	view, err := paymentapp.NewView(fetcher, payee, logger)
	if err != nil {
		state, _ := payment.NewLoadingState().Fail(payment.NotFoundMessage)
		return state
	}
	defer view.Close()

	view.SetInvoiceID(ctx, invoiceID)
	state, err := view.Wait(ctx)
	if err != nil && !errors.Is(err, paymentapp.ErrNoRead) {
		logger.Printf("payment view wait invoice=%s: %v", invoiceID, err)
	}
	return state
}

func splitInvoicePath(path, prefix string) (invoiceID, action string, ok bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	idx := strings.LastIndex(rest, "/")
	if idx < 0 {
		return "", "", false
	}
	invoiceID, action = rest[:idx], rest[idx+1:]
	if strings.Contains(invoiceID, "/") {
		return "", "", false
	}
	if unescaped, err := url.PathUnescape(invoiceID); err == nil {
		invoiceID = unescaped
	}
	return invoiceID, action, true
}

// backURL is the non-script fallback of the back control: the same-origin
// referrer when there is one, else the dashboard's payment list.
func backURL(r *http.Request, nav payment.NavContext) string {
	referer := r.Referer()
	if referer == "" {
		return nav.ListPath()
	}
	parsed, err := url.Parse(referer)
	if err != nil || parsed.Path == "" || !strings.HasPrefix(parsed.Path, "/") {
		return nav.ListPath()
	}
	if parsed.Host != "" && parsed.Host != r.Host {
		return nav.ListPath()
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}

func sanitizeFilename(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, value)
}
