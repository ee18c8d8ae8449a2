package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/amigos-terceira-idade/desktop/core"
	"github.com/amigos-terceira-idade/desktop/internal/logger"
	"github.com/amigos-terceira-idade/desktop/internal/session"
	"github.com/amigos-terceira-idade/desktop/internal/types"
)

// SessionManager owns the session lifecycle: startup restoration,
// login, registration, logout and the bounded token refresh. It is the
// only component that writes the shared session state or touches the
// credential store.
type SessionManager struct {
	gateway *RequestGateway
	store   core.CredentialStore
	state   *session.State
	log     zerolog.Logger

	restoreOnce sync.Once

	// refreshMu single-flights token refreshes: concurrent 401s on the
	// same expired token must produce one /auth/refresh call, not one
	// per caller.
	refreshMu sync.Mutex
}

// NewSessionManager wires the manager into the gateway so that
// authorization failures on any outbound call feed back into the
// session lifecycle.
func NewSessionManager(gateway *RequestGateway, store core.CredentialStore, state *session.State) *SessionManager {
	m := &SessionManager{
		gateway: gateway,
		store:   store,
		state:   state,
		log:     logger.Get(),
	}
	gateway.setAuthHooks(m)
	return m
}

// Restore loads a persisted token and publishes the resulting session
// state, ending the startup loading window. It runs at most once; later
// calls are no-ops. A store failure is degraded to "no credential": the
// user logs in again rather than the app refusing to start.
func (m *SessionManager) Restore() {
	m.restoreOnce.Do(func() {
		token, err := m.store.Load(core.KeyAccessToken)
		switch {
		case err == nil && token != "":
			m.log.Info().Msg("restored persisted session")
			m.state.SetAuthenticated(token, session.ReasonRestored)
		case errors.Is(err, core.ErrNotFound) || token == "":
			m.log.Info().Msg("no persisted session found")
			m.state.SetUnauthenticated(session.ReasonRestoreEmpty)
		default:
			m.log.Warn().Err(err).Msg("credential store failed during restore, starting unauthenticated")
			m.state.SetUnauthenticated(session.ReasonRestoreEmpty)
		}
	})
}

// Login authenticates with the backend. On success the tokens are
// persisted and the authenticated state published; on any failure
// nothing changes, so a failed login can simply be retried.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*types.UserProfile, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}

	payload := types.LoginRequest{Email: email, Password: password}
	raw, err := m.gateway.DoPublic(ctx, http.MethodPost, "/auth/login", payload)
	if err != nil {
		return nil, asCredentialError(err)
	}

	return m.establishSession(raw, session.ReasonSignedIn)
}

// Register creates an account. A successful registration returns tokens
// and signs the user in, exactly like Login.
func (m *SessionManager) Register(ctx context.Context, req types.RegisterRequest) (*types.UserProfile, error) {
	raw, err := m.gateway.DoPublic(ctx, http.MethodPost, "/auth/register", req)
	if err != nil {
		return nil, asCredentialError(err)
	}

	return m.establishSession(raw, session.ReasonSignedIn)
}

// Logout clears the persisted credentials and the published state. Safe
// to call when already signed out.
func (m *SessionManager) Logout() {
	m.clearCredentials()
	m.state.SetUnauthenticated(session.ReasonSignedOut)
	m.log.Info().Msg("signed out")
}

// establishSession decodes an auth payload, persists its tokens and
// publishes the authenticated state.
func (m *SessionManager) establishSession(raw json.RawMessage, reason session.Reason) (*types.UserProfile, error) {
	var payload types.AuthPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrInvalidCredentials)
	}

	m.persistTokens(payload.AccessToken, payload.RefreshToken)
	m.state.SetAuthenticated(payload.AccessToken, reason)
	return payload.User, nil
}

// refreshSession implements the gateway's bounded refresh: at most one
// attempt against /auth/refresh per expired session, applied only if
// the session epoch is still the one the failing call was issued
// under. Reports whether the caller should re-read the published token
// and retry: true after a successful refresh, and also when another
// call already renewed the session while this one waited its turn.
func (m *SessionManager) refreshSession(ctx context.Context, epoch uint64) bool {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	// Another 401 holding the same dead token may have refreshed while
	// we waited for the lock. If the session moved on and is
	// authenticated, the work is done; firing a second refresh would
	// burn the just-rotated refresh token.
	if token, current := m.state.Token(); current != epoch {
		return token != ""
	}

	refreshToken, err := m.store.Load(core.KeyRefreshToken)
	if err != nil || refreshToken == "" {
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			m.log.Warn().Err(err).Msg("credential store failed loading refresh token")
		}
		return false
	}

	body := map[string]string{"refresh_token": refreshToken}
	raw, err := m.gateway.DoPublic(ctx, http.MethodPost, "/auth/refresh", body)
	if err != nil {
		m.log.Warn().Err(err).Msg("token refresh rejected")
		return false
	}

	var payload types.AuthPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.AccessToken == "" {
		m.log.Warn().Msg("token refresh returned no usable token")
		return false
	}

	if !m.state.CompareAndSet(epoch, payload.AccessToken, session.ReasonRefreshed) {
		// The session changed while the refresh was in flight; its
		// result belongs to a session that no longer exists. Retry only
		// if whatever replaced it is itself authenticated.
		token, _ := m.state.Token()
		return token != ""
	}

	m.persistTokens(payload.AccessToken, payload.RefreshToken)
	m.log.Info().Msg("access token refreshed")
	return true
}

// sessionExpired is the gateway's forced-logout trigger. The epoch
// guard makes it idempotent under concurrent 401s and keeps a stale
// teardown from destroying a session established afterwards.
func (m *SessionManager) sessionExpired(epoch uint64) {
	if !m.state.CompareAndClear(epoch, session.ReasonExpired) {
		return
	}
	m.clearCredentials()
	m.log.Info().Msg("session expired, credentials cleared")
}

// persistTokens writes both tokens to the store. Persistence failures
// are warnings: the in-memory session still works, the user just signs
// in again next launch.
func (m *SessionManager) persistTokens(accessToken, refreshToken string) {
	if err := m.store.Save(core.KeyAccessToken, accessToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist access token")
	}
	if refreshToken == "" {
		return
	}
	if err := m.store.Save(core.KeyRefreshToken, refreshToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to persist refresh token")
	}
}

func (m *SessionManager) clearCredentials() {
	if err := m.store.Delete(core.KeyAccessToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to delete access token")
	}
	if err := m.store.Delete(core.KeyRefreshToken); err != nil {
		m.log.Warn().Err(err).Msg("failed to delete refresh token")
	}
}

// asCredentialError maps a rejected login or registration to
// ErrInvalidCredentials while keeping the backend's message. Transport
// errors pass through untouched.
func asCredentialError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
		if apiErr.Message != "" {
			return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return ErrInvalidCredentials
	}
	return err
}
