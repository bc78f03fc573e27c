package api

import (
	"context"
	"fmt"
	"net/url"

	"ImageLibrary/internal/cli/model"
)

// FetchProducts searches products by free text.
func (c *Client) FetchProducts(ctx context.Context, search string) ([]model.Product, error) {
	path := "/api/products"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	return c.fetchProducts(ctx, path)
}

// FetchAllProducts returns the full product list.
func (c *Client) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	return c.fetchProducts(ctx, "/api/get-products")
}

func (c *Client) fetchProducts(ctx context.Context, path string) ([]model.Product, error) {
	var list []ProductDTO
	if err := c.getJSON(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	out := make([]model.Product, 0, len(list))
	for _, d := range list {
		out = append(out, ToProduct(d))
	}
	return out, nil
}
