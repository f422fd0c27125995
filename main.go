package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"bluemoon-portal/internal/audit"
	"bluemoon-portal/internal/auth"
	loginapp "bluemoon-portal/internal/login/application"
	"bluemoon-portal/internal/login/infrastructure/userfile"
	loginhttp "bluemoon-portal/internal/login/interfaces/http"
	"bluemoon-portal/internal/observability/metrics"
	paymentapp "bluemoon-portal/internal/payment/application"
	payment "bluemoon-portal/internal/payment/domain"
	"bluemoon-portal/internal/payment/infrastructure/paymentapi"
	paymenthttp "bluemoon-portal/internal/payment/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var (
		db          *sql.DB
		auditLogger audit.Logger
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		auditRepo := audit.NewRepository(db)
		if err := auditRepo.EnsureSchema(context.Background()); err != nil {
			logger.Fatalf("audit schema error: %v", err)
		}
		auditLogger = auditRepo
	}
	metrics.Init(db, logger)

	payee, err := paymentapp.LoadPayeeConfig()
	if err != nil {
		logger.Fatalf("payee config error: %v", err)
	}
	paymentClient, err := paymentapi.NewClient(cfg.APIBaseURL, paymentapi.WithTimeout(cfg.PaymentAPITimeout))
	if err != nil {
		logger.Fatalf("payment client error: %v", err)
	}

	paymentOpts := []paymenthttp.Option{
		paymenthttp.WithQRImageURL(cfg.QRImageURL),
		paymenthttp.WithAuditLogger(auditLogger),
	}
	managementPayments, err := paymenthttp.NewHandler(payment.ManagementContext, paymentClient, payee, logger, paymentOpts...)
	if err != nil {
		logger.Fatalf("payment handler error: %v", err)
	}
	residentPayments, err := paymenthttp.NewHandler(payment.ResidentContext, paymentClient, payee, logger, paymentOpts...)
	if err != nil {
		logger.Fatalf("payment handler error: %v", err)
	}
	paymentAPI, err := paymenthttp.NewAPIHandler(paymentClient, payee, logger)
	if err != nil {
		logger.Fatalf("payment api handler error: %v", err)
	}

	authenticator, err := buildAuthenticator(cfg)
	if err != nil {
		logger.Fatalf("login authenticator error: %v", err)
	}
	loginService := loginapp.NewService(authenticator, logger)
	loginHandler, err := loginhttp.NewHandler(loginService, auditLogger, logger,
		loginhttp.WithBackgroundURL(cfg.BackgroundImageURL),
		loginhttp.WithSessionTTL(cfg.SessionTTL),
	)
	if err != nil {
		logger.Fatalf("login handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/", "/login", "/healthz", "/metrics"}, []string{"/static/"})
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/login", loginHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		loginHandler.ServeHTTP(w, r)
	})
	mux.Handle(payment.ManagementContext.RoutePrefix(), managementPayments)
	mux.Handle(payment.ResidentContext.RoutePrefix(), residentPayments)
	mux.Handle("/api/v1/payments/", paymentAPI)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	HTTPAddr           string
	APIBaseURL         string
	PaymentAPITimeout  time.Duration
	QRImageURL         string
	BackgroundImageURL string
	StaticDir          string
	JWTSecret          string
	SessionTTL         time.Duration
	LoginUsersFile     string
	DatabaseURL        string
}

func loadConfig() config {
	cfg := config{
		HTTPAddr:           getenvDefault("HTTP_ADDR", ":8080"),
		APIBaseURL:         getenvDefault("API_BASE_URL", getenvDefault("VITE_API_BASE_URL", "")),
		PaymentAPITimeout:  getenvDuration("PAYMENT_API_TIMEOUT", 0),
		QRImageURL:         getenvDefault("QR_IMAGE_URL", "/static/qr.png"),
		BackgroundImageURL: getenvDefault("BACKGROUND_IMAGE_URL", "/static/new_welcome_background.jpg"),
		StaticDir:          getenvDefault("STATIC_DIR", "web/static"),
		JWTSecret:          getenvDefault("AUTH_JWT_SECRET", ""),
		SessionTTL:         getenvDuration("SESSION_TTL", 12*time.Hour),
		LoginUsersFile:     getenvDefault("LOGIN_USERS_FILE", ""),
		DatabaseURL:        getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
	}
	if cfg.APIBaseURL == "" {
		log.Fatal("API_BASE_URL is required")
	}
	if cfg.LoginUsersFile != "" && cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required with LOGIN_USERS_FILE")
	}
	return cfg
}

// buildAuthenticator returns nil (log-only login) unless a users file is configured.
func buildAuthenticator(cfg config) (loginapp.Authenticator, error) {
	if cfg.LoginUsersFile == "" {
		return nil, nil
	}
	verifier, err := userfile.Load(cfg.LoginUsersFile)
	if err != nil {
		return nil, err
	}
	authenticator, err := loginapp.NewTokenAuthenticator(verifier, []byte(cfg.JWTSecret), cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	return authenticator, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
