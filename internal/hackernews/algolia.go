package hackernews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hnews/internal/model"
)

// AllData fetches a story and its nested comment tree from Algolia.
// Calls pass through the client's limiter.
func (c *Client) AllData(ctx context.Context, id int) (model.Item, error) {
	var zero model.Item
	if id <= 0 {
		return zero, fmt.Errorf("%w: got %d", ErrInvalidID, id)
	}
	var raw *AlgoliaItem
	err := c.limiter.Do(ctx, func(ctx context.Context) error {
		return c.getJSON(ctx, "algolia", fmt.Sprintf("%s/items/%d", c.algoliaAPI, id), &raw, true)
	})
	if err != nil {
		return zero, err
	}
	return Normalize(raw)
}

// AllDataWithFallback prefers the official API and enriches its placeholder
// children from Algolia when Algolia answers. When the official API fails,
// Algolia alone is used. It fails only if both sources fail.
func (c *Client) AllDataWithFallback(ctx context.Context, id int) (model.Item, error) {
	var zero model.Item
	if id <= 0 {
		return zero, fmt.Errorf("%w: got %d", ErrInvalidID, id)
	}
	story, offErr := c.official(ctx, id)
	if offErr == nil {
		nested, err := c.AllData(ctx, id)
		if err != nil {
			slog.Warn("hackernews: algolia enrichment failed", "id", id, "error", err)
			return story, nil
		}
		story.Children = mergeChildren(story.Children, nested.Children)
		return story, nil
	}
	slog.Warn("hackernews: official fetch failed, trying algolia", "id", id, "error", offErr)
	nested, algErr := c.AllData(ctx, id)
	if algErr != nil {
		return zero, fmt.Errorf("hackernews: item %d unavailable: %w", id, errors.Join(
			fmt.Errorf("official: %w", offErr),
			fmt.Errorf("algolia: %w", algErr),
		))
	}
	return nested, nil
}

// Thread builds a full tree from the official API alone: the item, then a
// level-by-level sweep of its comments.
func (c *Client) Thread(ctx context.Context, id int) (model.Item, error) {
	root, err := c.official(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	ids := make([]int, 0, len(root.Children))
	for _, k := range root.Children {
		ids = append(ids, k.ID)
	}
	flat, err := c.AllComments(ctx, ids)
	if err != nil {
		return model.Item{}, err
	}
	return BuildTree(root, flat), nil
}

func (c *Client) official(ctx context.Context, id int) (model.Item, error) {
	raw, err := c.Item(ctx, id)
	if err != nil {
		return model.Item{}, err
	}
	return Normalize(raw)
}
