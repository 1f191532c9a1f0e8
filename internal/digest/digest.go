// Package digest renders saved stories as a Markdown reading list.
package digest

import (
	"bytes"
	_ "embed"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"hnews/internal/model"
)

type Entry struct {
	Title       string
	URL         string
	ItemURL     string
	Author      string
	Points      int
	NumComments int
	Saved       string
	Summary     string
}

type Data struct {
	Title   string
	Date    string
	Entries []Entry
}

//go:embed digest.tmpl
var digestTpl string

var compiled = template.Must(template.New("digest").Parse(digestTpl))

// ExpandVars replaces {.CurrentDate} in s with now's date (UTC, YYYY-MM-DD).
func ExpandVars(s string, now time.Time) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return strings.ReplaceAll(s, "{.CurrentDate}", now.UTC().Format("2006-01-02"))
}

// Build orders favorites newest-saved first and attaches cached summaries.
func Build(title, webURL string, favs []model.FavoriteArticle, summaries map[int]string, now time.Time) Data {
	sort.Slice(favs, func(i, j int) bool { return favs[i].FavoritedAt.After(favs[j].FavoritedAt) })
	webURL = strings.TrimRight(webURL, "/")
	d := Data{Title: ExpandVars(title, now), Date: now.UTC().Format("2006-01-02")}
	for _, f := range favs {
		itemURL := webURL + "/item?id=" + strconv.Itoa(f.ID)
		u := f.URL
		if u == "" {
			u = itemURL
		}
		d.Entries = append(d.Entries, Entry{
			Title:       f.Title,
			URL:         u,
			ItemURL:     itemURL,
			Author:      f.Author,
			Points:      f.Points,
			NumComments: f.NumComments,
			Saved:       f.FavoritedAt.UTC().Format("2006-01-02"),
			Summary:     strings.TrimSpace(summaries[f.ID]),
		})
	}
	return d
}

func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
