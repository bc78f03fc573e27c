package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/store"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectPutter — то, что экспорту нужно от S3-клиента. *minio.Client подходит.
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Config описывает S3-совместимое хранилище для экспорта.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough is configured to upload.
func (c S3Config) Enabled() bool { return c.Endpoint != "" && c.Bucket != "" }

// NewS3Client creates a minio client for cfg.
func NewS3Client(cfg S3Config) (*minio.Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 export is not configured")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
}

// ExportImage — запись в манифесте экспорта; содержимое файла не выгружается.
type ExportImage struct {
	GlobalID               int64             `json:"globalId"`
	Name                   string            `json:"name"`
	Description            string            `json:"description"`
	Category               string            `json:"category"`
	Subcategory            string            `json:"subcategory"`
	Tags                   []string          `json:"tags"`
	ImageWidth             int               `json:"imageWidth"`
	ImageHeight            int               `json:"imageHeight"`
	HasAlphaChannel        bool              `json:"hasAlphaChannel"`
	LibraryFilePath        string            `json:"libraryFilePath"`
	AzureBlobURL           string            `json:"azureBlobUrl"`
	CDNURL                 string            `json:"cdnUrl"`
	FileType               string            `json:"fileType"`
	FileSize               int64             `json:"fileSize"`
	SyncStatus             model.SyncStatus  `json:"syncStatus"`
	IsDeleted              bool              `json:"isDeleted"`
	AppMetadata            model.AppMetadata `json:"appMetadata"`
	LinkedProductGlobalIDs []int64           `json:"linkedProductGlobalIds"`
}

// Manifest — результат "Export Data".
type Manifest struct {
	GeneratedAt string        `json:"generatedAt"`
	Count       int           `json:"count"`
	Stats       store.Stats   `json:"stats"`
	Images      []ExportImage `json:"images"`
}

// BuildManifest describes records as seen in the current view.
func BuildManifest(records []model.ImageRecord, stats store.Stats, at time.Time) Manifest {
	return Manifest{
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Count:       len(records),
		Stats:       stats,
		Images:      ExportImages(records),
	}
}

// ExportImages maps records to their public view without file bytes.
func ExportImages(records []model.ImageRecord) []ExportImage {
	out := make([]ExportImage, 0, len(records))
	for _, r := range records {
		linked := r.LinkedProductGlobalIDs
		if linked == nil {
			linked = []int64{}
		}
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, ExportImage{
			GlobalID:               r.GlobalID,
			Name:                   r.Name,
			Description:            r.Description,
			Category:               r.Category,
			Subcategory:            r.Subcategory,
			Tags:                   tags,
			ImageWidth:             r.ImageWidth,
			ImageHeight:            r.ImageHeight,
			HasAlphaChannel:        r.HasAlphaChannel,
			LibraryFilePath:        r.LibraryFilePath,
			AzureBlobURL:           r.AzureBlobURL,
			CDNURL:                 r.CDNURL,
			FileType:               r.FileType,
			FileSize:               r.FileSize,
			SyncStatus:             r.SyncStatus,
			IsDeleted:              r.IsDeleted,
			AppMetadata:            r.AppMetadata.Normalize(),
			LinkedProductGlobalIDs: linked,
		})
	}
	return out
}

// WriteManifest writes m as indented JSON.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ExportKey returns key or a generated exports/library-<uuid>.json name.
func ExportKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key != "" {
		return key
	}
	return "exports/library-" + uuid.NewString() + ".json"
}

// UploadManifest stores m in bucket under key and returns the object key.
func UploadManifest(ctx context.Context, p ObjectPutter, bucket, key string, m Manifest) (string, error) {
	var buf bytes.Buffer
	if err := WriteManifest(&buf, m); err != nil {
		return "", err
	}
	key = ExportKey(key)
	if _, err := p.PutObject(ctx, bucket, key, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	}); err != nil {
		return "", fmt.Errorf("upload export %s/%s: %w", bucket, key, err)
	}
	return key, nil
}
