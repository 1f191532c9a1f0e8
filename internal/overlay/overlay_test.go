package overlay

import (
	"testing"

	"hnews/internal/model"
)

func count(items []model.Item, text, author string) int {
	n := 0
	for _, it := range items {
		if it.Text == text && it.Author == author {
			n++
		}
	}
	return n
}

func TestChildrenSuppressesIndexedShadow(t *testing.T) {
	o := New()
	o.Add(1, 1, "bob", "hi")
	server := []model.Item{{ID: 10, Author: "bob", Text: "hi", ParentID: 1}}
	got := o.Children(1, server)
	if n := count(got, "hi", "bob"); n != 1 {
		t.Fatalf("instances of (hi, bob) = %d, want 1", n)
	}
	if got[0].Local {
		t.Errorf("server copy should win over local shadow")
	}
}

func TestChildrenKeepsDistinctLocal(t *testing.T) {
	o := New()
	o.Add(1, 1, "bob", "hello there")
	server := []model.Item{{ID: 10, Author: "bob", Text: "hi", ParentID: 1}}
	got := o.Children(1, server)
	if len(got) != 2 {
		t.Fatalf("merged len = %d, want 2", len(got))
	}
	local := got[1]
	if !local.Local || local.ID != LocalID || local.ParentID != 1 || local.CreatedAt.IsZero() {
		t.Errorf("local comment = %+v", local)
	}
}

func TestAddDefaultsAuthor(t *testing.T) {
	o := New()
	c := o.Add(5, 1, "", "x")
	if c.Author != DefaultAuthor {
		t.Errorf("author = %q", c.Author)
	}
}

func TestApplyNested(t *testing.T) {
	o := New()
	o.Add(2, 1, "me", "reply to two")
	o.Add(1, 1, "me", "top level")
	root := model.Item{ID: 1, Type: "story", Children: []model.Item{
		{ID: 2, Type: "comment", Author: "a", Text: "two", Children: []model.Item{}},
	}}
	merged := o.Apply(root)
	if len(root.Children[0].Children) != 0 {
		t.Fatalf("Apply mutated input")
	}
	if len(merged.Children) != 2 || merged.Children[1].Text != "top level" {
		t.Fatalf("top-level = %+v", merged.Children)
	}
	if len(merged.Children[0].Children) != 1 || merged.Children[0].Children[0].Text != "reply to two" {
		t.Fatalf("nested = %+v", merged.Children[0].Children)
	}
}

func TestPrune(t *testing.T) {
	o := New()
	o.Add(2, 1, "me", "caught up")
	o.Add(2, 1, "me", "still pending")
	root := model.Item{ID: 1, Children: []model.Item{
		{ID: 2, Children: []model.Item{{ID: 9, Author: "me", Text: "caught up"}}},
	}}
	if n := o.Prune(root); n != 1 {
		t.Fatalf("pruned = %d, want 1", n)
	}
	if p := o.Pending(2); len(p) != 1 || p[0].Text != "still pending" {
		t.Fatalf("pending = %+v", p)
	}
	if o.Len() != 1 {
		t.Errorf("Len = %d", o.Len())
	}
}
