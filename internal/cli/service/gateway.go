package service

import (
	"context"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/model"
)

// Gateway — порт к бэкенду библиотеки. Реализуется *api.Client.
type Gateway interface {
	FetchImages(ctx context.Context, apps []string) ([]api.ImageDTO, error)
	UpdateImage(ctx context.Context, id int64, upd api.ImageUpdate) error
	SyncImage(ctx context.Context, rec model.ImageRecord) (api.UploadResult, error)
	SyncDeleted(ctx context.Context, items []api.DeletionState) (int, error)

	FetchCategories(ctx context.Context) []string
	FetchTags(ctx context.Context) []string
	CreateTag(ctx context.Context, tag string) error

	FetchProducts(ctx context.Context, search string) ([]model.Product, error)
	FetchAllProducts(ctx context.Context) ([]model.Product, error)
	FetchImageLinkedProducts(ctx context.Context, id int64) ([]int64, error)
}

var _ Gateway = (*api.Client)(nil)
