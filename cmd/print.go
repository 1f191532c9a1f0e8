package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"hnews/internal/model"
	"hnews/internal/scrape"
)

func printStory(w io.Writer, rank int, it model.Item) {
	fmt.Fprintf(w, "%3d. %s", rank, it.Title)
	if it.URL != "" {
		fmt.Fprintf(w, " (%s)", it.URL)
	}
	fmt.Fprintf(w, "\n     %d points by %s %s | %d comments | id %d\n", it.Points, it.Author, ago(it.CreatedAt), len(it.Children), it.ID)
}

// printThread writes the story header and its comment tree, indenting replies.
func printThread(w io.Writer, root model.Item, depth int) {
	if root.IsStory() {
		fmt.Fprintf(w, "%s\n%d points by %s %s | %d comments\n", root.Title, root.Points, root.Author, ago(root.CreatedAt), root.CountComments())
		if root.URL != "" {
			fmt.Fprintln(w, root.URL)
		}
		if t := scrape.PlainText(root.Text); t != "" {
			fmt.Fprintf(w, "\n%s\n", t)
		}
		fmt.Fprintln(w)
	}
	for _, c := range root.Children {
		printComment(w, c, depth)
	}
}

func printComment(w io.Writer, c model.Item, depth int) {
	if c.Placeholder {
		return
	}
	pad := strings.Repeat("  ", depth)
	author := c.Author
	if author == "" {
		author = "[deleted]"
	}
	tag := ""
	if c.Local {
		tag = " (pending)"
	}
	fmt.Fprintf(w, "%s%s %s%s\n", pad, author, ago(c.CreatedAt), tag)
	for _, line := range strings.Split(scrape.PlainText(c.Text), "\n") {
		fmt.Fprintf(w, "%s  %s\n", pad, line)
	}
	fmt.Fprintln(w)
	for _, r := range c.Children {
		printComment(w, r, depth+1)
	}
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
