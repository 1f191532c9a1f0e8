package digest

import (
	"strings"
	"testing"
	"time"

	"hnews/internal/model"
)

func TestExpandVars(t *testing.T) {
	now := time.Date(2025, 10, 24, 23, 0, 0, 0, time.FixedZone("x", -3*3600))
	if got := ExpandVars("Reading list {.CurrentDate}", now); got != "Reading list 2025-10-25" {
		t.Errorf("got %q", got)
	}
}

func TestRenderOrdersAndLinks(t *testing.T) {
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	favs := []model.FavoriteArticle{
		{ID: 1, Title: "Older", URL: "https://a.example", Author: "x", FavoritedAt: now.Add(-48 * time.Hour)},
		{ID: 2, Title: "Ask HN: newer", Author: "y", Points: 7, NumComments: 3, FavoritedAt: now.Add(-time.Hour)},
	}
	d := Build("Saved {.CurrentDate}", "https://news.ycombinator.com/", favs, map[int]string{1: "## ARTICLE SUMMARY\nshort"}, now)
	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.HasPrefix(out, "# Saved 2025-01-02\n") {
		t.Errorf("header: %q", out[:40])
	}
	if strings.Index(out, "## Ask HN: newer") > strings.Index(out, "## Older") {
		t.Errorf("newest favorite should come first:\n%s", out)
	}
	for _, want := range []string{
		"[https://news.ycombinator.com/item?id=2](https://news.ycombinator.com/item?id=2)",
		"7 points by y | [3 comments](https://news.ycombinator.com/item?id=2)",
		"## ARTICLE SUMMARY\nshort",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
