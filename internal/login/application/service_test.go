package application

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"bluemoon-portal/internal/auth"
	login "bluemoon-portal/internal/login/domain"
)

type stubVerifier struct {
	subject string
	err     error
}

func (s stubVerifier) Verify(_ context.Context, _ Credentials) (string, error) {
	return s.subject, s.err
}

type panicAuthenticator struct{}

func (panicAuthenticator) Authenticate(context.Context, Credentials) (Session, error) {
	panic("boom")
}

func TestSubmitWithDefaultAuthenticatorOnlyLogs(t *testing.T) {
	var buf bytes.Buffer
	service := NewService(nil, log.New(&buf, "", 0))

	form := login.NewForm()
	form.SelectRole(auth.RoleAccountant)
	form.Bind("ketoan", "secret")

	result, err := service.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Authenticated() {
		t.Fatalf("stub authenticator must not sign in")
	}
	if result.Form.Role != auth.RoleAccountant || result.Form.Username != "ketoan" {
		t.Fatalf("unexpected form %+v", result.Form)
	}
	if result.Form.Password != "" {
		t.Fatalf("password must not be echoed back")
	}
	if !strings.Contains(buf.String(), "logging in as: Kế toán") {
		t.Fatalf("expected log line, got %q", buf.String())
	}
}

func TestSubmitWithTokenAuthenticator(t *testing.T) {
	secret := []byte("test-secret")
	authenticator, err := NewTokenAuthenticator(stubVerifier{subject: "user-9"}, secret, time.Hour)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	service := NewService(authenticator, nil)

	form := login.NewForm()
	form.Bind("user", "pw")
	result, err := service.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Authenticated() {
		t.Fatalf("expected session token")
	}
	claims, err := auth.ParseJWT(result.Session.Token, secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user-9" || claims.Role != string(auth.RoleResident) {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestSubmitRejectedCredentials(t *testing.T) {
	authenticator, err := NewTokenAuthenticator(stubVerifier{err: errors.New("bad password")}, []byte("s"), 0)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}
	result, err := NewService(authenticator, nil).Submit(context.Background(), login.NewForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Authenticated() || result.Message != MessageLoginFailed {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSubmitRecoversFromPanickingAuthenticator(t *testing.T) {
	result, err := NewService(panicAuthenticator{}, nil).Submit(context.Background(), login.NewForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Authenticated() || result.Message != MessageLoginFailed {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestNewTokenAuthenticatorValidates(t *testing.T) {
	if _, err := NewTokenAuthenticator(nil, []byte("s"), 0); err == nil {
		t.Fatalf("expected nil verifier error")
	}
	if _, err := NewTokenAuthenticator(stubVerifier{}, nil, 0); err == nil {
		t.Fatalf("expected empty secret error")
	}
}
