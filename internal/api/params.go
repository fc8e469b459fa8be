package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"laborctl/internal/models"
)

// ListParams are the query parameters shared by list endpoints. Zero values
// are left out of the query.
type ListParams struct {
	Page   int
	Limit  int
	Search string

	// Filters holds endpoint specific filters, e.g. status or role.
	Filters map[string]string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func list[T any](ctx context.Context, c *Client, path string, p ListParams, key string) (models.Page[T], error) {
	var raw map[string]json.RawMessage
	if err := c.get(ctx, path, p.values(), &raw); err != nil {
		return models.Page[T]{}, err
	}
	return decodePage[T](raw, key)
}
