package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amigos-terceira-idade/desktop/internal/types"
)

// BackendService exposes the resource endpoints the app's screens use:
// profile, appointments, invitations, interests, connections and
// suggestions. Every call goes through the request gateway, which owns
// credential attachment and authorization-failure handling.
type BackendService struct {
	gateway *RequestGateway
}

func NewBackendService(gateway *RequestGateway) *BackendService {
	return &BackendService{gateway: gateway}
}

// HealthCheck pings the backend without credentials.
func (s *BackendService) HealthCheck(ctx context.Context) (*types.HealthStatus, error) {
	raw, err := s.gateway.DoPublic(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	var status types.HealthStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &status, nil
}

// Me fetches the authenticated user's profile.
func (s *BackendService) Me(ctx context.Context) (*types.UserProfile, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return nil, err
	}
	var profile types.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile changes the editable profile fields and returns the
// updated profile.
func (s *BackendService) UpdateProfile(ctx context.Context, req types.UpdateProfileRequest) (*types.UserProfile, error) {
	raw, err := s.gateway.Do(ctx, http.MethodPut, "/users/me", req)
	if err != nil {
		return nil, err
	}
	var profile types.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// DeactivateAccount disables the current account on the backend.
func (s *BackendService) DeactivateAccount(ctx context.Context) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, "/users/deactivate", nil)
	return err
}

// CreateAppointment proposes a new appointment with another user.
func (s *BackendService) CreateAppointment(ctx context.Context, req types.CreateAppointmentRequest) (*types.Appointment, error) {
	raw, err := s.gateway.Do(ctx, http.MethodPost, "/appointments", req)
	if err != nil {
		return nil, err
	}
	var appt types.Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		return nil, fmt.Errorf("failed to parse appointment: %w", err)
	}
	return &appt, nil
}

// Appointments lists all of the user's appointments.
func (s *BackendService) Appointments(ctx context.Context) ([]types.Appointment, error) {
	return s.appointmentList(ctx, "/appointments")
}

// UpcomingAppointments lists only appointments that have not happened yet.
func (s *BackendService) UpcomingAppointments(ctx context.Context) ([]types.Appointment, error) {
	return s.appointmentList(ctx, "/appointments/upcoming")
}

func (s *BackendService) appointmentList(ctx context.Context, path string) ([]types.Appointment, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var appts []types.Appointment
	if err := json.Unmarshal(raw, &appts); err != nil {
		return nil, fmt.Errorf("failed to parse appointments: %w", err)
	}
	return appts, nil
}

// AppointmentDetails fetches a single appointment.
func (s *BackendService) AppointmentDetails(ctx context.Context, id int) (*types.Appointment, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, fmt.Sprintf("/appointments/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var appt types.Appointment
	if err := json.Unmarshal(raw, &appt); err != nil {
		return nil, fmt.Errorf("failed to parse appointment: %w", err)
	}
	return &appt, nil
}

// AcceptAppointment confirms an appointment invitation.
func (s *BackendService) AcceptAppointment(ctx context.Context, id int) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, fmt.Sprintf("/appointments/%d/accept", id), nil)
	return err
}

// DeclineAppointment turns an appointment invitation down.
func (s *BackendService) DeclineAppointment(ctx context.Context, id int) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, fmt.Sprintf("/appointments/%d/decline", id), nil)
	return err
}

// CancelAppointment cancels an appointment the user created or accepted.
func (s *BackendService) CancelAppointment(ctx context.Context, id int) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, fmt.Sprintf("/appointments/%d/cancel", id), nil)
	return err
}

// SentInvitations lists invitations the user sent.
func (s *BackendService) SentInvitations(ctx context.Context) ([]types.Invitation, error) {
	return s.invitationList(ctx, "/invitations/sent")
}

// ReceivedInvitations lists invitations waiting for the user's answer.
func (s *BackendService) ReceivedInvitations(ctx context.Context) ([]types.Invitation, error) {
	return s.invitationList(ctx, "/invitations/received")
}

func (s *BackendService) invitationList(ctx context.Context, path string) ([]types.Invitation, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var invs []types.Invitation
	if err := json.Unmarshal(raw, &invs); err != nil {
		return nil, fmt.Errorf("failed to parse invitations: %w", err)
	}
	return invs, nil
}

// Interests lists all interests available on the platform.
func (s *BackendService) Interests(ctx context.Context) ([]types.Interest, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, "/interests", nil)
	if err != nil {
		return nil, err
	}
	var interests []types.Interest
	if err := json.Unmarshal(raw, &interests); err != nil {
		return nil, fmt.Errorf("failed to parse interests: %w", err)
	}
	return interests, nil
}

// InterestDetails fetches a single interest.
func (s *BackendService) InterestDetails(ctx context.Context, id int) (*types.Interest, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, fmt.Sprintf("/interests/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var interest types.Interest
	if err := json.Unmarshal(raw, &interest); err != nil {
		return nil, fmt.Errorf("failed to parse interest: %w", err)
	}
	return &interest, nil
}

// CreateConnection asks to connect with a suggested user.
func (s *BackendService) CreateConnection(ctx context.Context, userID int) (*types.Connection, error) {
	body := map[string]int{"user_id": userID}
	raw, err := s.gateway.Do(ctx, http.MethodPost, "/connections", body)
	if err != nil {
		return nil, err
	}
	var conn types.Connection
	if err := json.Unmarshal(raw, &conn); err != nil {
		return nil, fmt.Errorf("failed to parse connection: %w", err)
	}
	return &conn, nil
}

// Connections lists the user's connections.
func (s *BackendService) Connections(ctx context.Context) ([]types.Connection, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, "/connections", nil)
	if err != nil {
		return nil, err
	}
	var conns []types.Connection
	if err := json.Unmarshal(raw, &conns); err != nil {
		return nil, fmt.Errorf("failed to parse connections: %w", err)
	}
	return conns, nil
}

// AcceptConnection accepts a pending connection request.
func (s *BackendService) AcceptConnection(ctx context.Context, id int) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, fmt.Sprintf("/connections/%d/accept", id), nil)
	return err
}

// RejectConnection rejects a pending connection request.
func (s *BackendService) RejectConnection(ctx context.Context, id int) error {
	_, err := s.gateway.Do(ctx, http.MethodPost, fmt.Sprintf("/connections/%d/reject", id), nil)
	return err
}

// Suggestions lists companion candidates from the matching service.
func (s *BackendService) Suggestions(ctx context.Context) ([]types.UserSuggestion, error) {
	raw, err := s.gateway.Do(ctx, http.MethodGet, "/suggestions", nil)
	if err != nil {
		return nil, err
	}
	var suggestions []types.UserSuggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return suggestions, nil
}
