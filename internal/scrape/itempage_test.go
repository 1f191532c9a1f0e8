package scrape

import (
	"net/url"
	"strings"
	"testing"
)

const itemHTML = `<html><body>
<span class="pagetop"><a id="me" href="user?id=pg">pg</a></span>
<table>
<tr class="athing" id="42"><td>
  <a id="up_42" class="clicky nosee" href="vote?id=42&amp;how=up&amp;auth=abc&amp;goto=item%3Fid%3D42"><div class="votearrow"></div></a>
  <a id="un_42" class="clicky" href="vote?id=42&amp;how=un&amp;auth=abc&amp;goto=item%3Fid%3D42">unvote</a>
</td></tr>
<tr class="athing comtr" id="43"><td>
  <a id="up_43" class="clicky" href="vote?id=43&amp;how=up&amp;auth=def&amp;goto=item%3Fid%3D42"><div class="votearrow"></div></a>
</td></tr>
</table>
<form action="comment" method="post">
  <input type="hidden" name="parent" value="42">
  <input type="hidden" name="goto" value="item?id=42">
  <input type="hidden" name="hmac" value="f00dfeed">
  <textarea name="text"></textarea>
</form>
</body></html>`

func parse(t *testing.T, doc string) *ItemPage {
	t.Helper()
	base, _ := url.Parse("https://news.ycombinator.com/")
	p, err := ParseItemPage(strings.NewReader(doc), base)
	if err != nil {
		t.Fatalf("ParseItemPage error: %v", err)
	}
	return p
}

func TestVoteLinkHiddenByNosee(t *testing.T) {
	p := parse(t, itemHTML)
	if u, ok := p.UpvoteURL(42); ok {
		t.Fatalf("UpvoteURL(42) = %q, want unavailable", u)
	}
	u, ok := p.DownvoteURL(42)
	if !ok {
		t.Fatalf("DownvoteURL(42) unavailable")
	}
	if want := "https://news.ycombinator.com/vote?id=42&how=un&auth=abc&goto=item%3Fid%3D42"; u != want {
		t.Errorf("DownvoteURL = %q, want %q", u, want)
	}
}

func TestVoteLinkVisibleResolvesAbsolute(t *testing.T) {
	p := parse(t, itemHTML)
	u, ok := p.UpvoteURL(43)
	if !ok {
		t.Fatalf("UpvoteURL(43) unavailable")
	}
	if !strings.HasPrefix(u, "https://news.ycombinator.com/vote?id=43&how=up") {
		t.Errorf("UpvoteURL = %q", u)
	}
	v := p.Votes(43)
	if !v.CanUpvote() || v.CanUnvote() {
		t.Errorf("Votes(43) = %+v", v)
	}
}

func TestVoteLinkAbsent(t *testing.T) {
	p := parse(t, itemHTML)
	if _, ok := p.UpvoteURL(99); ok {
		t.Errorf("UpvoteURL(99) should be unavailable")
	}
	if _, ok := p.DownvoteURL(43); ok {
		t.Errorf("DownvoteURL(43) should be unavailable")
	}
}

func TestHMACAndUser(t *testing.T) {
	p := parse(t, itemHTML)
	h, ok := p.HMAC()
	if !ok || h != "f00dfeed" {
		t.Fatalf("HMAC = %q, %v", h, ok)
	}
	if u := p.User(); u != "pg" {
		t.Errorf("User = %q", u)
	}
	anon := parse(t, `<html><body><a href="login">login</a></body></html>`)
	if _, ok := anon.HMAC(); ok {
		t.Errorf("anonymous page should have no hmac")
	}
}
