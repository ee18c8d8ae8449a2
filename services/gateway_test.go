package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amigos-terceira-idade/desktop/internal/session"
)

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeEnvelopeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func authenticatedState(token string) *session.State {
	state := session.NewState()
	state.SetAuthenticated(token, session.ReasonSignedIn)
	return state
}

func TestGateway_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	gw := NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1"))
	if _, err := gw.Do(context.Background(), http.MethodGet, "/users/me", nil); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "Bearer T1" {
		t.Fatalf("expected Bearer T1, got %q", gotAuth)
	}
}

func TestGateway_PublicCallOmitsCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	gw := NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1"))
	if _, err := gw.DoPublic(context.Background(), http.MethodGet, "/health", nil); err != nil {
		t.Fatalf("DoPublic failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("public call must not carry a credential, got %q", gotAuth)
	}
}

func TestGateway_NormalizesWrappedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]string{"name": "Maria"})
	}))
	defer srv.Close()

	gw := NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1"))
	raw, err := gw.Do(context.Background(), http.MethodGet, "/users/me", nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload not unwrapped: %v", err)
	}
	if payload["name"] != "Maria" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestGateway_PassesRawResponseThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"name":"Caminhada"}]`)
	}))
	defer srv.Close()

	gw := NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1"))
	raw, err := gw.Do(context.Background(), http.MethodGet, "/interests", nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		t.Fatalf("raw array mangled: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
}

func TestGateway_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelopeError(w, http.StatusBadRequest, "INVALID_REQUEST", "dados inválidos")
	}))
	defer srv.Close()

	gw := NewRequestGateway(srv.URL, srv.Client(), session.NewState())
	_, err := gw.DoPublic(context.Background(), http.MethodPost, "/auth/register", map[string]string{})
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Code != "INVALID_REQUEST" || apiErr.Message != "dados inválidos" {
		t.Fatalf("envelope not carried over: %+v", apiErr)
	}
}

func TestGateway_PublicUnauthorizedIsNotSessionExpiry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelopeError(w, http.StatusUnauthorized, "LOGIN_ERROR", "credenciais inválidas")
	}))
	defer srv.Close()

	state := session.NewState()
	gw := NewRequestGateway(srv.URL, srv.Client(), state)
	_, err := gw.DoPublic(context.Background(), http.MethodPost, "/auth/login", map[string]string{"email": "a@b.com"})

	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("rejected login must not look like an expired session")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestGateway_UnauthenticatedCallGets401AsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelopeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token ausente")
	}))
	defer srv.Close()

	// No token held: a 401 cannot expire a session that never existed.
	gw := NewRequestGateway(srv.URL, srv.Client(), session.NewState())
	_, err := gw.Do(context.Background(), http.MethodGet, "/users/me", nil)

	if errors.Is(err, ErrSessionExpired) {
		t.Fatalf("no session to expire, expected plain APIError")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
}

func TestGateway_NetworkErrorWrapped(t *testing.T) {
	gw := NewRequestGateway("http://127.0.0.1:1", &http.Client{}, session.NewState())
	_, err := gw.DoPublic(context.Background(), http.MethodGet, "/health", nil)
	if err == nil {
		t.Fatalf("expected network error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("network failure must not masquerade as an API error")
	}
}
