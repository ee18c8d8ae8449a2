package core

import (
	"errors"
	"fmt"

	"github.com/amigos-terceira-idade/desktop/internal/logger"
)

// Logical keys under which credentials are persisted. The same two keys
// are used regardless of which backing store is active.
const (
	KeyAccessToken  = "user_jwt"
	KeyRefreshToken = "refresh_token"
)

// ErrNotFound reports that a key holds no value. It is a normal result,
// not a failure; callers treat it as "absent".
var ErrNotFound = errors.New("credential not found")

// CredentialStore is a small persistent key/value contract for bearer
// credentials. Operations are idempotent: deleting an absent key or
// overwriting an existing one are both fine.
type CredentialStore interface {
	Save(key, value string) error
	Load(key string) (string, error)
	Delete(key string) error
}

// OpenStore selects and opens a credential store.
//
// backend is one of:
//   - "keyring": OS secure storage (Keychain, Secret Service, Credential
//     Manager), fail if unavailable
//   - "sqlite": local SQLite key/value file under dataDir
//   - "auto": probe the keyring and fall back to sqlite when no keyring
//     service is reachable (headless session, missing D-Bus, ...)
func OpenStore(backend, dataDir string) (CredentialStore, error) {
	log := logger.Get()

	switch backend {
	case "keyring":
		return NewKeyringStore(), nil
	case "sqlite":
		return NewSQLiteStore(dataDir)
	case "", "auto":
		ks := NewKeyringStore()
		if err := ks.probe(); err != nil {
			log.Warn().Err(err).Msg("OS keyring unavailable, falling back to sqlite store")
			return NewSQLiteStore(dataDir)
		}
		log.Debug().Msg("using OS keyring credential store")
		return ks, nil
	default:
		return nil, fmt.Errorf("unknown credential backend %q", backend)
	}
}
