// Package overlay keeps comments submitted in this process visible until the
// server's comment tree includes them.
package overlay

import (
	"sync"
	"time"

	"hnews/internal/model"
)

// LocalID is the sentinel id of a comment the server has not assigned yet.
const LocalID = -1

// DefaultAuthor is shown when the session's username is unknown.
const DefaultAuthor = "[ME]"

// Overlay maps a parent item id to comments submitted under it. It lives only
// in memory.
type Overlay struct {
	mu    sync.Mutex
	local map[int][]model.Item
	now   func() time.Time
}

func New() *Overlay {
	return &Overlay{local: map[int][]model.Item{}, now: time.Now}
}

// Add records a just-submitted comment under parentID and returns it.
func (o *Overlay) Add(parentID, storyID int, author, text string) model.Item {
	if author == "" {
		author = DefaultAuthor
	}
	c := model.Item{
		ID:        LocalID,
		Type:      "comment",
		CreatedAt: o.now().UTC(),
		Author:    author,
		Text:      text,
		ParentID:  parentID,
		StoryID:   storyID,
		Children:  []model.Item{},
		Local:     true,
	}
	o.mu.Lock()
	o.local[parentID] = append(o.local[parentID], c)
	o.mu.Unlock()
	return c
}

// Pending returns the local comments under parentID.
func (o *Overlay) Pending(parentID int) []model.Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]model.Item(nil), o.local[parentID]...)
}

// Len returns the number of local comments across all parents.
func (o *Overlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, cs := range o.local {
		n += len(cs)
	}
	return n
}

type key struct {
	text   string
	author string
}

// Children returns server followed by the local comments under parentID that
// the server does not yet have. A local comment matches a server comment when
// text and author are equal.
func (o *Overlay) Children(parentID int, server []model.Item) []model.Item {
	pending := o.Pending(parentID)
	if len(pending) == 0 {
		return server
	}
	seen := make(map[key]bool, len(server))
	for _, c := range server {
		seen[key{c.Text, c.Author}] = true
	}
	out := make([]model.Item, 0, len(server)+len(pending))
	out = append(out, server...)
	for _, c := range pending {
		k := key{c.Text, c.Author}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// Apply returns a copy of root with local comments merged in at every level.
func (o *Overlay) Apply(root model.Item) model.Item {
	children := make([]model.Item, 0, len(root.Children))
	for _, c := range root.Children {
		if c.Local {
			children = append(children, c)
			continue
		}
		children = append(children, o.Apply(c))
	}
	root.Children = o.Children(root.ID, children)
	return root
}

// Prune drops local comments that now appear in the server tree rooted at root.
// It returns how many were dropped.
func (o *Overlay) Prune(root model.Item) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.prune(root)
}

func (o *Overlay) prune(node model.Item) int {
	n := 0
	if pending := o.local[node.ID]; len(pending) > 0 {
		seen := make(map[key]bool, len(node.Children))
		for _, c := range node.Children {
			if !c.Local {
				seen[key{c.Text, c.Author}] = true
			}
		}
		kept := pending[:0]
		for _, c := range pending {
			if seen[key{c.Text, c.Author}] {
				n++
				continue
			}
			kept = append(kept, c)
		}
		if len(kept) == 0 {
			delete(o.local, node.ID)
		} else {
			o.local[node.ID] = kept
		}
	}
	for _, c := range node.Children {
		n += o.prune(c)
	}
	return n
}
