package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// FetchImages returns raw backend records for the given applications.
// Mapping into model.ImageRecord is the caller's job (see ToRecord).
func (c *Client) FetchImages(ctx context.Context, apps []string) ([]ImageDTO, error) {
	path := "/api/images"
	if len(apps) > 0 {
		path += "?apps=" + url.QueryEscape(strings.Join(apps, ","))
	}
	var list []ImageDTO
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("fetch images: %w", err)
	}
	return list, nil
}

// UpdateImage writes edited fields of a persisted image through to the backend.
func (c *Client) UpdateImage(ctx context.Context, id int64, upd ImageUpdate) error {
	upd.Tags = nonNil(upd.Tags)
	upd.AppMetadata = upd.AppMetadata.Normalize()
	if upd.LinkedProductGlobalIDs == nil {
		upd.LinkedProductGlobalIDs = []int64{}
	}
	if err := c.postJSON(ctx, fmt.Sprintf("/api/images/%d/update", id), upd, nil); err != nil {
		return fmt.Errorf("update image %d: %w", id, err)
	}
	return nil
}

// FetchImageLinkedProducts returns product ids linked to an image.
// Transport errors are returned; an unexpected body degrades to an empty list.
func (c *Client) FetchImageLinkedProducts(ctx context.Context, id int64) ([]int64, error) {
	path := fmt.Sprintf("/api/images/%d/linked-products", id)
	var resp linkedProductsResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		if isShape(err) {
			c.log.Warnw("linked products: unexpected shape", "id", id, "error", err)
			return []int64{}, nil
		}
		return nil, fmt.Errorf("linked products of %d: %w", id, err)
	}
	ids := make([]int64, 0, len(resp.LinkedProductGlobalIDs))
	for _, v := range resp.LinkedProductGlobalIDs {
		ids = append(ids, int64(v))
	}
	return ids, nil
}
