package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/amigos-terceira-idade/desktop/internal/logger"
	"github.com/amigos-terceira-idade/desktop/internal/session"
)

// authHooks is what the gateway needs from the session manager: a
// bounded refresh attempt and a forced-logout trigger. The manager
// wires itself in when constructed.
type authHooks interface {
	// refreshSession renews the session identified by epoch (sharing a
	// single refresh among concurrent callers) and reports whether a
	// renewed token is published and worth retrying with.
	refreshSession(ctx context.Context, epoch uint64) bool
	// sessionExpired tears the session identified by epoch down.
	sessionExpired(epoch uint64)
}

// RequestGateway is the single chokepoint for outbound HTTP. It reads
// the current credential from the shared session state at call time
// (never from the persistent store, and never from a cache of its own),
// attaches it as a bearer header, and inspects every response for an
// authorization failure.
type RequestGateway struct {
	baseURL string
	client  *http.Client
	state   *session.State
	auth    authHooks
	log     zerolog.Logger
}

// NewRequestGateway builds a gateway for the given backend base URL.
func NewRequestGateway(baseURL string, client *http.Client, state *session.State) *RequestGateway {
	if client == nil {
		client = &http.Client{}
	}
	return &RequestGateway{
		baseURL: baseURL,
		client:  client,
		state:   state,
		log:     logger.Get(),
	}
}

func (g *RequestGateway) setAuthHooks(h authHooks) {
	g.auth = h
}

// Do performs an authenticated call. On a 401 it attempts one bounded
// token refresh and retries once; if the backend still rejects the
// session, the session is torn down as a side effect and the call
// returns ErrSessionExpired. Any other non-2xx becomes an *APIError.
//
// The returned payload is the data section of the response envelope, or
// the raw body for endpoints that respond unwrapped.
func (g *RequestGateway) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	token, epoch := g.state.Token()

	status, raw, err := g.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized && token != "" {
		if g.auth != nil && g.auth.refreshSession(ctx, epoch) {
			token, epoch = g.state.Token()
			status, raw, err = g.send(ctx, method, path, body, token)
			if err != nil {
				return nil, err
			}
			if status != http.StatusUnauthorized {
				return normalize(status, raw)
			}
		}
		g.log.Warn().Str("method", method).Str("path", path).Msg("session rejected by backend, forcing logout")
		if g.auth != nil {
			g.auth.sessionExpired(epoch)
		}
		return nil, ErrSessionExpired
	}

	return normalize(status, raw)
}

// DoPublic performs an unauthenticated call (login, registration, token
// refresh, health check). No credential is attached and a 401 here is
// reported as-is: rejected credentials on login must not tear down a
// session that never existed.
func (g *RequestGateway) DoPublic(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	status, raw, err := g.send(ctx, method, path, body, "")
	if err != nil {
		return nil, err
	}
	return normalize(status, raw)
}

func (g *RequestGateway) send(ctx context.Context, method, path string, body any, token string) (int, []byte, error) {
	url := g.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	return resp.StatusCode, raw, nil
}

// envelope is the backend's standard response wrapper. Some resource
// endpoints respond with the bare payload instead, so every field is
// optional.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// normalize unwraps the {success, data, error} envelope so that callers
// always receive the payload itself, and converts non-2xx statuses into
// typed errors carrying the backend's error code and message.
func normalize(status int, raw []byte) (json.RawMessage, error) {
	var env envelope
	wrapped := json.Unmarshal(raw, &env) == nil && (env.Success != nil || env.Data != nil || env.Error != nil)

	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status, Message: http.StatusText(status)}
		if wrapped && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	if wrapped && env.Data != nil {
		return env.Data, nil
	}
	return raw, nil
}
