package scrape

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"hnews/internal/model"

	"github.com/PuerkitoBio/goquery"
)

// ItemPage is a parsed news.ycombinator.com item page. It is the only place
// that knows the site's markup for vote links and the comment form.
type ItemPage struct {
	doc  *goquery.Document
	base *url.URL
}

// ParseItemPage parses an item page. Relative links resolve against base.
func ParseItemPage(r io.Reader, base *url.URL) (*ItemPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("scrape: parse item page: %w", err)
	}
	return &ItemPage{doc: doc, base: base}, nil
}

// UpvoteURL returns the absolute upvote link for id. It reports false when the
// link is absent or hidden (not logged in, already voted, own item).
func (p *ItemPage) UpvoteURL(id int) (string, bool) {
	return p.voteLink("up_", id)
}

// DownvoteURL returns the absolute unvote link for id, present only after an upvote.
func (p *ItemPage) DownvoteURL(id int) (string, bool) {
	return p.voteLink("un_", id)
}

// Votes derives the vote state for id.
func (p *ItemPage) Votes(id int) model.VoteState {
	var v model.VoteState
	v.UpvoteURL, _ = p.UpvoteURL(id)
	v.DownvoteURL, _ = p.DownvoteURL(id)
	return v
}

func (p *ItemPage) voteLink(prefix string, id int) (string, bool) {
	sel := p.doc.Find("#" + prefix + strconv.Itoa(id)).First()
	if sel.Length() == 0 || sel.HasClass("nosee") {
		return "", false
	}
	href, ok := sel.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return p.resolve(href)
}

// HMAC returns the comment form's anti-forgery token.
func (p *ItemPage) HMAC() (string, bool) {
	v, ok := p.doc.Find(`input[name="hmac"]`).First().Attr("value")
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// User returns the logged-in account shown in the page header, if any.
func (p *ItemPage) User() string {
	return strings.TrimSpace(p.doc.Find("#me").First().Text())
}

func (p *ItemPage) resolve(href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if p.base == nil {
		return ref.String(), true
	}
	return p.base.ResolveReference(ref).String(), true
}
