package hnweb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hnews/internal/model"
	"hnews/internal/scrape"
)

// ErrNoHMAC means the comment form token was not on the page, usually
// because the session is not logged in or the thread is locked.
var ErrNoHMAC = errors.New("hnweb: comment token not found")

// Resolver performs actions that exist only on the website: votes and comments.
type Resolver struct {
	s *Session
}

func NewResolver(s *Session) *Resolver {
	return &Resolver{s: s}
}

// ParsedHTML fetches item?id=id with the session cookies and parses it. It
// tries to restore the session first but works anonymously too.
func (r *Resolver) ParsedHTML(ctx context.Context, id int) (*scrape.ItemPage, error) {
	if id <= 0 {
		return nil, fmt.Errorf("hnweb: invalid item id %d", id)
	}
	if err := r.s.Ensure(ctx); err != nil {
		slog.Debug("hnweb: fetching page anonymously", "id", id, "error", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.s.url("item?id="+strconv.Itoa(id)), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hnweb: item page %d: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hnweb: item page %d status %d", id, resp.StatusCode)
	}
	return scrape.ParseItemPage(resp.Body, r.s.web)
}

// VoteState scrapes the current vote links for id.
func (r *Resolver) VoteState(ctx context.Context, id int) (model.VoteState, error) {
	page, err := r.ParsedHTML(ctx, id)
	if err != nil {
		return model.VoteState{}, err
	}
	return page.Votes(id), nil
}

// VoteDirection selects which vote link Vote follows.
type VoteDirection int

const (
	VoteUp VoteDirection = iota
	VoteUn
)

// Vote upvotes id, or removes an existing vote with VoteUn. When the page
// offers no link for dir (already voted, own item, anonymous) it returns
// false and the scraped state without an error.
func (r *Resolver) Vote(ctx context.Context, id int, dir VoteDirection) (bool, model.VoteState, error) {
	state, err := r.VoteState(ctx, id)
	if err != nil {
		return false, model.VoteState{}, err
	}
	link := state.UpvoteURL
	if dir == VoteUn {
		link = state.DownvoteURL
	}
	if link == "" {
		slog.Debug("hnweb: vote not available", "id", id, "dir", dir)
		return false, state, nil
	}
	ok, err := r.MakeAuthRequest(ctx, link)
	return ok, state, err
}

// MakeAuthRequest GETs a scraped action link with the session cookies.
// Success is a 200; any other status is false without an error.
func (r *Resolver) MakeAuthRequest(ctx context.Context, link string) (bool, error) {
	if err := r.s.Ensure(ctx); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return false, err
	}
	resp, err := r.s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("hnweb: action request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		slog.Warn("hnweb: action rejected", "status", resp.StatusCode)
		return false, nil
	}
	return true, nil
}

// WriteComment posts text as a reply to parent. The hmac token is scraped
// fresh from the page on every call.
func (r *Resolver) WriteComment(ctx context.Context, parent int, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, fmt.Errorf("hnweb: empty comment")
	}
	if err := r.s.Ensure(ctx); err != nil {
		return false, err
	}
	page, err := r.ParsedHTML(ctx, parent)
	if err != nil {
		return false, err
	}
	hmac, ok := page.HMAC()
	if !ok {
		return false, ErrNoHMAC
	}
	form := url.Values{
		"parent": {strconv.Itoa(parent)},
		"goto":   {"item?id=" + strconv.Itoa(parent)},
		"hmac":   {hmac},
		"text":   {text},
	}
	ctx, cancel := context.WithTimeout(ctx, r.s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.s.url("comment"), strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := r.s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("hnweb: comment request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		slog.Warn("hnweb: comment rejected", "parent", parent, "status", resp.StatusCode)
		return false, nil
	}
	return true, nil
}
