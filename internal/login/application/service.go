package application

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"bluemoon-portal/internal/auth"
	login "bluemoon-portal/internal/login/domain"
	"bluemoon-portal/internal/observability/metrics"
)

// Credentials is what the login form submits.
type Credentials struct {
	Role     auth.Role
	Username string
	Password string
}

// Session is the outcome of a successful authentication.
// An empty Token means the user stays on the login screen.
type Session struct {
	Subject string
	Role    auth.Role
	Token   string
}

// Authenticator verifies submitted credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) (Session, error)
}

// LogOnlyAuthenticator writes the submission to the log and never signs anyone in.
type LogOnlyAuthenticator struct {
	Logger *log.Logger
}

// Authenticate logs the chosen role.
func (a LogOnlyAuthenticator) Authenticate(_ context.Context, creds Credentials) (Session, error) {
	if a.Logger != nil {
		a.Logger.Printf("logging in as: %s", creds.Role.Label())
	}
	return Session{}, nil
}

// Verifier checks a username/password pair for a role.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (subject string, err error)
}

// TokenAuthenticator issues a portal JWT for credentials accepted by a Verifier.
type TokenAuthenticator struct {
	verifier Verifier
	secret   []byte
	ttl      time.Duration
}

// NewTokenAuthenticator constructs a TokenAuthenticator.
func NewTokenAuthenticator(verifier Verifier, secret []byte, ttl time.Duration) (*TokenAuthenticator, error) {
	if verifier == nil {
		return nil, errors.New("login: nil verifier")
	}
	if len(secret) == 0 {
		return nil, errors.New("login: empty secret")
	}
	return &TokenAuthenticator{verifier: verifier, secret: secret, ttl: ttl}, nil
}

// Authenticate verifies creds and signs a session token.
func (a *TokenAuthenticator) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	subject, err := a.verifier.Verify(ctx, creds)
	if err != nil {
		return Session{}, err
	}
	token, err := auth.IssueJWT(a.secret, subject, creds.Role, a.ttl)
	if err != nil {
		return Session{}, err
	}
	return Session{Subject: subject, Role: creds.Role, Token: token}, nil
}

// Result is returned by Submit.
type Result struct {
	Form    login.Form
	Session Session
	Message string
}

// Authenticated reports whether the submission produced a session.
func (r Result) Authenticated() bool {
	return r.Session.Token != ""
}

// Service handles login form submissions.
type Service struct {
	authenticator Authenticator
	logger        *log.Logger
}

// NewService constructs a Service. A nil authenticator falls back to LogOnlyAuthenticator.
func NewService(authenticator Authenticator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if authenticator == nil {
		authenticator = LogOnlyAuthenticator{Logger: logger}
	}
	return &Service{authenticator: authenticator, logger: logger}
}

// Submit hands the bound form to the authenticator.
// Authentication failures are reported in Result.Message and never returned as errors.
func (s *Service) Submit(ctx context.Context, form login.Form) (result Result, err error) {
	result = Result{Form: form}
	result.Form.Password = ""
	metrics.IncLoginSubmit(string(form.Role))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("login: authenticator panic: %v", r)
			result.Session = Session{}
			result.Message = MessageLoginFailed
			err = nil
		}
	}()

	session, authErr := s.authenticator.Authenticate(ctx, Credentials{
		Role:     form.Role,
		Username: form.Username,
		Password: form.Password,
	})
	if authErr != nil {
		s.logger.Printf("login: authenticate role=%s user=%s: %v", form.Role, form.Username, authErr)
		result.Message = MessageLoginFailed
		return result, nil
	}
	if session.Role == "" {
		session.Role = form.Role
	}
	result.Session = session
	return result, nil
}

// MessageLoginFailed is shown when an authenticator rejects the credentials.
const MessageLoginFailed = "Đăng nhập không thành công."
