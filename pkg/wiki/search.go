package wiki

import (
	"context"
	"errors"

	"github.com/wikigopher/mediawiki/pkg/pagination"
	"github.com/wikigopher/mediawiki/pkg/query"
)

// Search runs a full-text search and returns the hits as a lazy sequence.
// Construction performs no I/O; an invalid term surfaces on the first Next.
func (c *Client) Search(term string) *pagination.Seq[SearchResult] {
	intent := query.Search(term)
	return pagination.New("search", func(ctx context.Context, cont query.Continuation) ([]SearchResult, query.Continuation, error) {
		env, err := c.do(ctx, intent, cont, c.cfg.SearchResults)
		if err != nil {
			return nil, nil, err
		}
		var results []SearchResult
		if err := env.list("search", &results); err != nil {
			return nil, nil, err
		}
		return results, env.continuation(), nil
	})
}

// Geosearch finds pages near a coordinate. The radius is in meters and must
// be within [10, 10000].
func (c *Client) Geosearch(ctx context.Context, latitude, longitude float64, radius int) ([]GeosearchResult, error) {
	env, err := c.do(ctx, query.Geosearch(latitude, longitude, radius), nil, c.cfg.SearchResults)
	if err != nil {
		return nil, err
	}
	var results []GeosearchResult
	if err := env.list("geosearch", &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Random returns the title of one random main-namespace page.
func (c *Client) Random(ctx context.Context) (string, error) {
	titles, err := c.RandomCount(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return "", errors.New("no random page returned")
	}
	return titles[0], nil
}

// RandomCount returns the titles of count random main-namespace pages. The
// service caps count at its own maximum.
func (c *Client) RandomCount(ctx context.Context, count int) ([]string, error) {
	env, err := c.do(ctx, query.Random(count), nil, 0)
	if err != nil {
		return nil, err
	}
	var nodes []struct {
		Title string `json:"title"`
	}
	if err := env.list("random", &nodes); err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(nodes))
	for _, node := range nodes {
		titles = append(titles, node.Title)
	}
	return titles, nil
}

// Languages lists the languages the wiki farm supports, in the order the
// service reports them.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	env, err := c.do(ctx, query.Languages(), nil, 0)
	if err != nil {
		return nil, err
	}
	return env.languages()
}

// Backlinks returns the pages linking to the given title as a lazy sequence.
func (c *Client) Backlinks(target string) *pagination.Seq[Backlink] {
	intent := query.Backlinks(target)
	return pagination.New("backlinks", func(ctx context.Context, cont query.Continuation) ([]Backlink, query.Continuation, error) {
		env, err := c.do(ctx, intent, cont, c.cfg.PageSize)
		if err != nil {
			return nil, nil, err
		}
		var links []Backlink
		if err := env.list("backlinks", &links); err != nil {
			return nil, nil, err
		}
		return links, env.continuation(), nil
	})
}
