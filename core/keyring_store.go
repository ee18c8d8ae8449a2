package core

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService namespaces our entries in the OS credential manager.
const keyringService = "amigos-terceira-idade"

// KeyringStore persists credentials in the operating system's secure
// storage: macOS Keychain, the freedesktop Secret Service on Linux, or
// the Windows Credential Manager.
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

func (s *KeyringStore) Save(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring save %s: %w", key, err)
	}
	return nil
}

func (s *KeyringStore) Load(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring load %s: %w", key, err)
	}
	return value, nil
}

func (s *KeyringStore) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %s: %w", key, err)
	}
	return nil
}

// probe checks that a keyring service actually answers. Some desktops
// expose the API but have no daemon behind it, which only shows up on
// the first real call.
func (s *KeyringStore) probe() error {
	const probeKey = "store_probe"
	if err := keyring.Set(s.service, probeKey, "ok"); err != nil {
		return err
	}
	if _, err := keyring.Get(s.service, probeKey); err != nil {
		return err
	}
	return keyring.Delete(s.service, probeKey)
}
