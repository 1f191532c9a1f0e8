package hackernews

import (
	"context"
	"log/slog"

	"hnews/internal/model"

	"golang.org/x/sync/errgroup"
)

// AllComments walks comment ids level by level. Each level is fetched with at
// most commentWorkers concurrent requests; the next level is every kid found.
// A failed fetch is logged and dropped so the rest of the tree is still
// reached. Results are flat, in discovery order, with placeholder children.
// Only context cancellation aborts the sweep.
func (c *Client) AllComments(ctx context.Context, rootIDs []int) ([]model.Item, error) {
	visited := make(map[int]bool, len(rootIDs))
	frontier := make([]int, 0, len(rootIDs))
	for _, id := range rootIDs {
		if id > 0 && !visited[id] {
			visited[id] = true
			frontier = append(frontier, id)
		}
	}
	var all []model.Item
	for depth := 0; len(frontier) > 0; depth++ {
		results := make([]*model.Item, len(frontier))
		var g errgroup.Group
		g.SetLimit(c.commentWorkers)
		for i, id := range frontier {
			g.Go(func() error {
				raw, err := c.Item(ctx, id)
				if err == nil {
					var it model.Item
					if it, err = Normalize(raw); err == nil {
						results[i] = &it
						return nil
					}
				}
				slog.Warn("hackernews: comment fetch failed", "id", id, "depth", depth, "error", err)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return all, err
		}
		var next []int
		for _, it := range results {
			if it == nil {
				continue
			}
			all = append(all, *it)
			for _, kid := range it.Children {
				if !visited[kid.ID] {
					visited[kid.ID] = true
					next = append(next, kid.ID)
				}
			}
		}
		frontier = next
	}
	return all, nil
}

// BuildTree replaces root's placeholder children with fetched comments,
// recursively. Children that were not fetched are dropped.
func BuildTree(root model.Item, flat []model.Item) model.Item {
	byID := make(map[int]model.Item, len(flat))
	for _, it := range flat {
		byID[it.ID] = it
	}
	return attach(root, byID, map[int]bool{root.ID: true})
}

func attach(node model.Item, byID map[int]model.Item, onPath map[int]bool) model.Item {
	children := make([]model.Item, 0, len(node.Children))
	for _, ph := range node.Children {
		full, ok := byID[ph.ID]
		if !ph.Placeholder {
			full, ok = ph, true
		}
		if !ok || onPath[full.ID] {
			continue
		}
		onPath[full.ID] = true
		children = append(children, attach(full, byID, onPath))
		delete(onPath, full.ID)
	}
	node.Children = children
	return node
}
