package hnweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"hnews/internal/storage"

	"golang.org/x/sync/singleflight"
)

// ErrLoginRequired means there is no session and a silent re-login was not possible.
var ErrLoginRequired = errors.New("hnweb: please log in again")

const userCookie = "user"

// Session is the process-wide login state: a cookie jar, the credential
// store used for silent re-login, and a guard so only one re-login runs at a time.
type Session struct {
	web      *url.URL
	client   *http.Client
	jar      http.CookieJar
	store    *storage.SessionStore
	fallback storage.Credentials
	timeout  time.Duration
	relogin  singleflight.Group
}

// SessionConfig configures a Session.
type SessionConfig struct {
	WebURL  string // e.g. https://news.ycombinator.com
	Store   *storage.SessionStore
	Account storage.Credentials // used when the store holds no credentials
	Timeout time.Duration
}

// NewSession creates a session rooted at cfg.WebURL.
func NewSession(cfg SessionConfig) (*Session, error) {
	if strings.TrimSpace(cfg.WebURL) == "" {
		cfg.WebURL = "https://news.ycombinator.com"
	}
	web, err := url.Parse(strings.TrimRight(cfg.WebURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("hnweb: bad web url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Session{
		web:      web,
		client:   &http.Client{Jar: jar},
		jar:      jar,
		store:    cfg.Store,
		fallback: cfg.Account,
		timeout:  cfg.Timeout,
	}, nil
}

// Restore loads a previously saved user cookie into the jar.
func (s *Session) Restore(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	v, err := s.store.Cookie(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("hnweb: restore session failed", "error", err)
		}
		return false
	}
	s.jar.SetCookies(s.web, []*http.Cookie{{Name: userCookie, Value: v, Path: "/"}})
	return true
}

// LoggedIn reports whether the jar holds a user cookie.
func (s *Session) LoggedIn() bool {
	return s.cookie() != ""
}

// Username returns the account encoded in the user cookie ("name&hash").
func (s *Session) Username() string {
	v := s.cookie()
	if i := strings.IndexByte(v, '&'); i > 0 {
		return v[:i]
	}
	return v
}

func (s *Session) cookie() string {
	for _, c := range s.jar.Cookies(s.web) {
		if c.Name == userCookie && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// Login posts credentials to the login form. It succeeds when the response is
// 200 and the server set a user cookie. Credentials and cookie are persisted.
func (s *Session) Login(ctx context.Context, username, password string) (bool, error) {
	form := url.Values{"acct": {username}, "pw": {password}, "goto": {"news"}}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url("login"), strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("hnweb: login request: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !s.LoggedIn() {
		slog.Info("hnweb: login rejected", "user", username, "status", resp.StatusCode)
		return false, nil
	}
	if s.store != nil {
		if err := s.store.SaveCredentials(ctx, storage.Credentials{Username: username, Password: password}); err != nil {
			slog.Warn("hnweb: save credentials failed", "error", err)
		}
		if err := s.store.SaveCookie(ctx, s.cookie()); err != nil {
			slog.Warn("hnweb: save cookie failed", "error", err)
		}
	}
	slog.Info("hnweb: logged in", "user", username)
	return true, nil
}

// Ensure makes sure a session cookie is present, attempting one silent
// re-login with stored credentials if it is not. Concurrent callers share a
// single attempt. Failure is ErrLoginRequired; there is no retry loop.
func (s *Session) Ensure(ctx context.Context) error {
	if s.LoggedIn() {
		return nil
	}
	_, err, _ := s.relogin.Do("relogin", func() (any, error) {
		if s.LoggedIn() {
			return nil, nil
		}
		creds := s.fallback
		if s.store != nil {
			if stored, err := s.store.Credentials(ctx); err == nil {
				creds = stored
			}
		}
		if creds.Username == "" || creds.Password == "" {
			return nil, ErrLoginRequired
		}
		ok, err := s.Login(ctx, creds.Username, creds.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoginRequired, err)
		}
		if !ok {
			return nil, ErrLoginRequired
		}
		return nil, nil
	})
	return err
}

// Logout forgets the cookie and the stored credentials.
func (s *Session) Logout(ctx context.Context) error {
	s.jar.SetCookies(s.web, []*http.Cookie{{Name: userCookie, Value: "", Path: "/", MaxAge: -1}})
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx)
}

func (s *Session) url(path string) string {
	ref, _ := url.Parse(path)
	return s.web.ResolveReference(ref).String()
}
