package api

import (
	"context"
	"errors"
	"strings"
)

// FetchCategories returns known categories. Read path with a safe default:
// any failure is logged and degrades to an empty list.
func (c *Client) FetchCategories(ctx context.Context) []string {
	return c.fetchStrings(ctx, "/api/images/categories")
}

// FetchTags returns known tags; degrades to an empty list like FetchCategories.
func (c *Client) FetchTags(ctx context.Context) []string {
	return c.fetchStrings(ctx, "/api/images/tags")
}

func (c *Client) fetchStrings(ctx context.Context, path string) []string {
	var list []string
	if err := c.getJSON(ctx, path, &list); err != nil {
		c.log.Warnw("read degraded to empty list", "path", path, "error", err)
		return []string{}
	}
	if list == nil {
		return []string{}
	}
	return list
}

// CreateTag registers a new tag on the backend. It changes persisted state,
// so the error is returned to the caller.
func (c *Client) CreateTag(ctx context.Context, tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return errors.New("tag is required")
	}
	return c.postJSON(ctx, "/api/images/tags", map[string]string{"tag": tag}, nil)
}
