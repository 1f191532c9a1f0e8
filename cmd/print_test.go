package cmd

import (
	"bytes"
	"strings"
	"testing"

	"hnews/internal/model"
	"hnews/internal/overlay"
)

func TestParseID(t *testing.T) {
	if id, err := parseID("8863"); err != nil || id != 8863 {
		t.Errorf("parseID(8863) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) should fail", bad)
		}
	}
}

func TestPrintThreadIndentsAndSkipsPlaceholders(t *testing.T) {
	root := model.Item{
		ID: 1, Type: "story", Title: "Story", Author: "pg", Points: 3,
		Children: []model.Item{
			{ID: 2, Type: "comment", Author: "alice", Text: "<p>top</p>", Children: []model.Item{
				{ID: 3, Type: "comment", Author: "bob", Text: "nested"},
			}},
			{ID: 4, Placeholder: true},
			{ID: -1, Type: "comment", Author: "me", Text: "mine", Local: true},
		},
	}
	var buf bytes.Buffer
	printThread(&buf, root, 0)
	out := buf.String()
	for _, want := range []string{"Story\n3 points by pg", "alice \n  top\n", "  bob \n    nested\n", "me  (pending)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[deleted]") {
		t.Errorf("placeholder printed:\n%s", out)
	}
}

func TestWithLocalCommentPending(t *testing.T) {
	thread := model.Item{ID: 10, Type: "comment", StoryID: 1, Children: []model.Item{
		{ID: 11, Type: "comment", Author: "alice", Text: "hi"},
	}}
	merged, pending := withLocalComment(overlay.New(), thread, "pg", "my reply")
	if pending != 1 || len(merged.Children) != 2 {
		t.Fatalf("pending = %d, children = %d", pending, len(merged.Children))
	}
	local := merged.Children[1]
	if !local.Local || local.ParentID != 10 || local.StoryID != 1 {
		t.Errorf("local comment = %+v", local)
	}

	story := model.Item{ID: 5, Type: "story", Children: []model.Item{}}
	merged, _ = withLocalComment(overlay.New(), story, "pg", "first")
	if got := merged.Children[0].StoryID; got != 5 {
		t.Errorf("story id under a story = %d, want 5", got)
	}
}

func TestWithLocalCommentAlreadyIndexed(t *testing.T) {
	thread := model.Item{ID: 10, Type: "comment", StoryID: 1, Children: []model.Item{
		{ID: 12, Type: "comment", Author: "pg", Text: "my reply"},
	}}
	merged, pending := withLocalComment(overlay.New(), thread, "pg", "my reply")
	if pending != 0 || len(merged.Children) != 1 || merged.Children[0].Local {
		t.Fatalf("pending = %d, children = %+v", pending, merged.Children)
	}
}
