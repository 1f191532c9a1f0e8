package hackernews

import (
	"fmt"
	"strings"
	"time"

	"hnews/internal/model"
)

// Raw is an upstream item record before normalization. It is implemented
// only by *OfficialItem and *AlgoliaItem.
type Raw interface {
	source() string
}

func (*OfficialItem) source() string { return "official" }
func (*AlgoliaItem) source() string  { return "algolia" }

// Normalize converts either upstream shape into the canonical nested item.
// A nil record is ErrNotFound; a record without an id is malformed.
func Normalize(r Raw) (model.Item, error) {
	switch v := r.(type) {
	case *OfficialItem:
		if v == nil {
			return model.Item{}, ErrNotFound
		}
		return normalizeOfficial(v)
	case *AlgoliaItem:
		if v == nil {
			return model.Item{}, ErrNotFound
		}
		return normalizeAlgolia(v, 0)
	default:
		return model.Item{}, ErrNotFound
	}
}

func normalizeOfficial(o *OfficialItem) (model.Item, error) {
	if o.ID == 0 {
		return model.Item{}, fmt.Errorf("hackernews: official item missing id")
	}
	it := model.Item{
		ID:        o.ID,
		Type:      itemType(o.Type),
		CreatedAt: unixTime(o.Time),
		Author:    o.By,
		Title:     o.Title,
		URL:       strings.TrimSpace(o.URL),
		Text:      o.Text,
		Points:    o.Score,
		ParentID:  o.Parent,
		Children:  make([]model.Item, 0, len(o.Kids)),
	}
	if it.Type != "comment" {
		it.StoryID = o.ID
	}
	for _, kid := range o.Kids {
		it.Children = append(it.Children, model.Item{
			ID:          kid,
			Type:        "comment",
			ParentID:    o.ID,
			StoryID:     it.StoryID,
			Children:    []model.Item{},
			Placeholder: true,
		})
	}
	return it, nil
}

func normalizeAlgolia(a *AlgoliaItem, storyID int) (model.Item, error) {
	if a.ID == 0 {
		return model.Item{}, fmt.Errorf("hackernews: algolia item missing id")
	}
	if a.StoryID != 0 {
		storyID = a.StoryID
	}
	it := model.Item{
		ID:        a.ID,
		Type:      itemType(a.Type),
		CreatedAt: algoliaTime(a),
		Author:    a.Author,
		Title:     a.Title,
		URL:       strings.TrimSpace(a.URL),
		Text:      a.Text,
		StoryID:   storyID,
		Children:  make([]model.Item, 0, len(a.Children)),
	}
	if a.Points != nil {
		it.Points = *a.Points
	}
	if a.ParentID != nil {
		it.ParentID = *a.ParentID
	}
	if it.StoryID == 0 && it.Type != "comment" {
		it.StoryID = a.ID
	}
	for _, child := range a.Children {
		if child == nil {
			continue
		}
		c, err := normalizeAlgolia(child, it.StoryID)
		if err != nil {
			// a malformed descendant should not hide its siblings
			continue
		}
		it.Children = append(it.Children, c)
	}
	return it, nil
}

// FromItem renders a canonical item back into the Algolia shape, so that
// Normalize(FromItem(x)) reproduces x for any item Normalize produced from
// Algolia. Placeholder and local children have no Algolia form and are dropped.
func FromItem(it model.Item) *AlgoliaItem {
	points := it.Points
	a := &AlgoliaItem{
		ID:       it.ID,
		Type:     it.Type,
		Author:   it.Author,
		Title:    it.Title,
		URL:      it.URL,
		Text:     it.Text,
		Points:   &points,
		StoryID:  it.StoryID,
		Children: make([]*AlgoliaItem, 0, len(it.Children)),
	}
	if !it.CreatedAt.IsZero() {
		a.CreatedAtI = it.CreatedAt.Unix()
		a.CreatedAt = it.CreatedAt.UTC().Format(time.RFC3339)
	}
	if it.ParentID != 0 {
		parent := it.ParentID
		a.ParentID = &parent
	}
	for _, c := range it.Children {
		if c.Placeholder || c.Local {
			continue
		}
		a.Children = append(a.Children, FromItem(c))
	}
	return a
}

func itemType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return "story"
	}
	return t
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func algoliaTime(a *AlgoliaItem) time.Time {
	if a.CreatedAtI != 0 {
		return unixTime(a.CreatedAtI)
	}
	if t, err := time.Parse(time.RFC3339, a.CreatedAt); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// mergeChildren enriches official placeholder children with Algolia's nested
// comments. Official order is kept; Algolia-only children are appended.
func mergeChildren(official, algolia []model.Item) []model.Item {
	byID := make(map[int]model.Item, len(algolia))
	for _, c := range algolia {
		byID[c.ID] = c
	}
	out := make([]model.Item, 0, len(official)+len(algolia))
	seen := make(map[int]bool, len(official))
	for _, c := range official {
		if full, ok := byID[c.ID]; ok {
			out = append(out, full)
		} else {
			out = append(out, c)
		}
		seen[c.ID] = true
	}
	for _, c := range algolia {
		if !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
