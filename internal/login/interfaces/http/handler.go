package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"bluemoon-portal/internal/audit"
	"bluemoon-portal/internal/auth"
	loginapp "bluemoon-portal/internal/login/application"
	login "bluemoon-portal/internal/login/domain"
)

const maxFormBytes = 16 << 10

// Handler serves the role-selection login screen.
type Handler struct {
	service       *loginapp.Service
	auditLogger   audit.Logger
	logger        *log.Logger
	page          *template.Template
	backgroundURL string
	sessionTTL    time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithBackgroundURL sets the background image location.
func WithBackgroundURL(url string) Option {
	return func(h *Handler) {
		if url != "" {
			h.backgroundURL = url
		}
	}
}

// WithSessionTTL sets the session cookie lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(h *Handler) { h.sessionTTL = ttl }
}

// NewHandler constructs a login handler.
func NewHandler(service *loginapp.Service, auditLogger audit.Logger, logger *log.Logger, opts ...Option) (*Handler, error) {
	if service == nil {
		return nil, errors.New("login handler: nil service")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	page, err := parsePage()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		service:       service,
		auditLogger:   auditLogger,
		logger:        logger,
		page:          page,
		backgroundURL: "/static/new_welcome_background.jpg",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP handles GET/POST /login.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	form := login.NewForm()
	form.SelectRoleSlug(r.URL.Query().Get("role"))
	h.render(w, http.StatusOK, form, "")
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := login.NewForm()
	form.SelectRoleSlug(r.PostForm.Get("role"))
	form.Bind(r.PostForm.Get("username"), r.PostForm.Get("password"))

	result, err := h.service.Submit(r.Context(), form)
	if err != nil {
		h.logger.Printf("login submit error: %v", err)
		h.render(w, http.StatusOK, result.Form, loginapp.MessageLoginFailed)
		return
	}
	h.logAudit(r, result)

	if !result.Authenticated() {
		h.render(w, http.StatusOK, result.Form, result.Message)
		return
	}

	cookie := &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    result.Session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	}
	if h.sessionTTL > 0 {
		cookie.MaxAge = int(h.sessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	http.Redirect(w, r, result.Session.Role.LandingPath(), http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, form login.Form, message string) {
	var buf bytes.Buffer
	data := pageData{
		BackgroundURL: h.backgroundURL,
		Form:          form,
		Options:       form.Options(),
		Message:       message,
	}
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Printf("login render error: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) logAudit(r *http.Request, result loginapp.Result) {
	if h.auditLogger == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"authenticated": result.Authenticated(),
	})
	audit.Record(r.Context(), h.auditLogger, audit.Entry{
		Actor:        result.Form.Username,
		Role:         string(result.Form.Role),
		Action:       audit.ActionLoginSubmit,
		ResourceType: "session",
		ResourceID:   result.Session.Subject,
		Metadata:     meta,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}, h.logger)
}
