package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amigos-terceira-idade/desktop/internal/types"
)

func TestBackend_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, types.HealthStatus{Service: "amigos-api", Status: "ok"})
	}))
	defer srv.Close()

	backend := NewBackendService(NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1")))
	status, err := backend.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if status.Service != "amigos-api" || status.Status != "ok" {
		t.Fatalf("unexpected health status: %+v", status)
	}
}

func TestBackend_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T1" {
			writeEnvelopeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token ausente")
			return
		}
		writeEnvelope(w, http.StatusOK, types.UserProfile{
			ID: "u1", Name: "Maria", Email: "a@b.com", UserType: types.UserTypeElderly, Bio: "Gosto de jardinagem",
		})
	}))
	defer srv.Close()

	backend := NewBackendService(NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1")))
	profile, err := backend.Me(context.Background())
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if profile.Name != "Maria" || profile.UserType != types.UserTypeElderly {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestBackend_UpcomingAppointments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments/upcoming" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, []types.Appointment{
			{ID: 1, Title: "Caminhada no parque", Date: "2026-09-10", WithUserID: 7, Status: "CONFIRMED"},
			{ID: 2, Title: "Café da tarde", Date: "2026-09-12", WithUserID: 9, Status: "PENDING"},
		})
	}))
	defer srv.Close()

	backend := NewBackendService(NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1")))
	appts, err := backend.UpcomingAppointments(context.Background())
	if err != nil {
		t.Fatalf("UpcomingAppointments failed: %v", err)
	}
	if len(appts) != 2 || appts[0].Title != "Caminhada no parque" {
		t.Fatalf("unexpected appointments: %+v", appts)
	}
}

func TestBackend_CreateConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/connections" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeEnvelope(w, http.StatusCreated, types.Connection{ID: 3, UserID: 7, Status: "PENDING"})
	}))
	defer srv.Close()

	backend := NewBackendService(NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1")))
	conn, err := backend.CreateConnection(context.Background(), 7)
	if err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}
	if conn.UserID != 7 || conn.Status != "PENDING" {
		t.Fatalf("unexpected connection: %+v", conn)
	}
}

func TestBackend_SuggestionsRawArray(t *testing.T) {
	// Some resource endpoints respond without the envelope; the gateway
	// must hand the raw payload through untouched.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7,"name":"Antônio","interests":[{"id":1,"name":"Xadrez"}]}]`))
	}))
	defer srv.Close()

	backend := NewBackendService(NewRequestGateway(srv.URL, srv.Client(), authenticatedState("T1")))
	suggestions, err := backend.Suggestions(context.Background())
	if err != nil {
		t.Fatalf("Suggestions failed: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].Name != "Antônio" || len(suggestions[0].Interests) != 1 {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
}
