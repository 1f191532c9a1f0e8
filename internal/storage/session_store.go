package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Credentials are the account name and password used for silent re-login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionStore persists the account name and session cookie in the KV
// backend. The password goes to Secrets, keyed by account name.
type SessionStore struct {
	kv      KV
	secrets Secrets
	prefix  string
}

func NewSessionStore(kv KV, secrets Secrets, prefix string) *SessionStore {
	return &SessionStore{kv: kv, secrets: secrets, prefix: prefix}
}

type storedAccount struct {
	Username string `json:"username"`
}

func passwordName(prefix, username string) string {
	return prefix + ":" + username
}

// Credentials returns the stored credentials, or ErrNotFound.
func (s *SessionStore) Credentials(ctx context.Context) (Credentials, error) {
	var acct storedAccount
	b, err := s.kv.Get(ctx, sessionKey(s.prefix, "credentials"))
	if err != nil {
		return Credentials{}, err
	}
	if err := json.Unmarshal(b, &acct); err != nil {
		return Credentials{}, fmt.Errorf("storage: decode credentials: %w", err)
	}
	if acct.Username == "" {
		return Credentials{}, ErrNotFound
	}
	pw, err := s.secrets.Secret(ctx, passwordName(s.prefix, acct.Username))
	if err != nil {
		return Credentials{}, err
	}
	if pw == "" {
		return Credentials{}, ErrNotFound
	}
	return Credentials{Username: acct.Username, Password: pw}, nil
}

// SaveCredentials writes the password to Secrets first so the KV never
// names an account without one.
func (s *SessionStore) SaveCredentials(ctx context.Context, c Credentials) error {
	if c.Username == "" {
		return fmt.Errorf("storage: credentials without username")
	}
	if err := s.secrets.SetSecret(ctx, passwordName(s.prefix, c.Username), c.Password); err != nil {
		return err
	}
	b, err := json.Marshal(storedAccount{Username: c.Username})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionKey(s.prefix, "credentials"), b)
}

// Cookie returns the stored user cookie value, or ErrNotFound.
func (s *SessionStore) Cookie(ctx context.Context) (string, error) {
	b, err := s.kv.Get(ctx, sessionKey(s.prefix, "cookie"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *SessionStore) SaveCookie(ctx context.Context, value string) error {
	return s.kv.Set(ctx, sessionKey(s.prefix, "cookie"), []byte(value))
}

// Clear removes the cookie, the account name and its password.
func (s *SessionStore) Clear(ctx context.Context) error {
	var errs []error
	if c, err := s.Credentials(ctx); err == nil {
		errs = append(errs, s.secrets.DeleteSecret(ctx, passwordName(s.prefix, c.Username)))
	}
	errs = append(errs,
		s.kv.Delete(ctx, sessionKey(s.prefix, "cookie")),
		s.kv.Delete(ctx, sessionKey(s.prefix, "credentials")),
	)
	return errors.Join(errs...)
}
