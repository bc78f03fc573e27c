package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Мок шлюза к бэкенду ---
type mockGateway struct{ mock.Mock }

func (m *mockGateway) FetchImages(ctx context.Context, apps []string) ([]api.ImageDTO, error) {
	args := m.Called(ctx, apps)
	v, _ := args.Get(0).([]api.ImageDTO)
	return v, args.Error(1)
}
func (m *mockGateway) UpdateImage(ctx context.Context, id int64, upd api.ImageUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}
func (m *mockGateway) SyncImage(ctx context.Context, rec model.ImageRecord) (api.UploadResult, error) {
	args := m.Called(ctx, rec)
	v, _ := args.Get(0).(api.UploadResult)
	return v, args.Error(1)
}
func (m *mockGateway) SyncDeleted(ctx context.Context, items []api.DeletionState) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}
func (m *mockGateway) FetchCategories(ctx context.Context) []string {
	v, _ := m.Called(ctx).Get(0).([]string)
	return v
}
func (m *mockGateway) FetchTags(ctx context.Context) []string {
	v, _ := m.Called(ctx).Get(0).([]string)
	return v
}
func (m *mockGateway) CreateTag(ctx context.Context, tag string) error {
	return m.Called(ctx, tag).Error(0)
}
func (m *mockGateway) FetchProducts(ctx context.Context, search string) ([]model.Product, error) {
	args := m.Called(ctx, search)
	v, _ := args.Get(0).([]model.Product)
	return v, args.Error(1)
}
func (m *mockGateway) FetchAllProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).([]model.Product)
	return v, args.Error(1)
}
func (m *mockGateway) FetchImageLinkedProducts(ctx context.Context, id int64) ([]int64, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]int64)
	return v, args.Error(1)
}

var _ Gateway = (*mockGateway)(nil)

// --- Память вместо settings.yaml ---
type memSettings struct {
	m       model.AppMetadata
	saveErr error
	saves   int
}

func (s *memSettings) Load() (model.AppMetadata, error) { return s.m.Normalize(), nil }
func (s *memSettings) Save(m model.AppMetadata) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.m = m
	return nil
}

func withID(id int64) interface{} {
	return mock.MatchedBy(func(r model.ImageRecord) bool { return r.GlobalID == id })
}

func stagedRecord(id int64, name string) model.ImageRecord {
	return model.ImageRecord{
		GlobalID:    id,
		Name:        name,
		IsActive:    true,
		SyncStatus:  model.StatusPending,
		FileType:    "image/png",
		AppMetadata: model.AppMetadata{}.Normalize(),
		File:        &model.FilePayload{FileName: name + ".png", MIMEType: "image/png", Data: []byte{1}},
	}
}

func persistedRecord(id int64, name string) model.ImageRecord {
	return model.ImageRecord{GlobalID: id, Name: name, IsActive: true, SyncStatus: model.StatusUpToDate, FileType: "image/png"}
}

// writePNG создаёт во временном каталоге png‑файл с полупрозрачной заливкой.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 1, G: 2, B: 3, A: 100})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o600))
	return p
}
