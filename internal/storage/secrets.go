package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Secrets holds values that must not land in the KV backend, such as the
// account password.
type Secrets interface {
	Secret(ctx context.Context, name string) (string, error)
	SetSecret(ctx context.Context, name, value string) error
	DeleteSecret(ctx context.Context, name string) error
}

// KeyringSecrets stores secrets in the OS keyring (Keychain, Secret Service,
// Windows Credential Manager) under a single service name.
type KeyringSecrets struct {
	Service string
}

func NewKeyringSecrets(service string) *KeyringSecrets {
	if service == "" {
		service = "hnews"
	}
	return &KeyringSecrets{Service: service}
}

// Secret returns the stored value, or ErrNotFound.
func (k *KeyringSecrets) Secret(_ context.Context, name string) (string, error) {
	v, err := keyring.Get(k.Service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: keyring get: %w", err)
	}
	return v, nil
}

func (k *KeyringSecrets) SetSecret(_ context.Context, name, value string) error {
	if err := keyring.Set(k.Service, name, value); err != nil {
		return fmt.Errorf("storage: keyring set: %w", err)
	}
	return nil
}

// DeleteSecret removes name; a missing entry is not an error.
func (k *KeyringSecrets) DeleteSecret(_ context.Context, name string) error {
	err := keyring.Delete(k.Service, name)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("storage: keyring delete: %w", err)
}
