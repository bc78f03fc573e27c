package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ImageLibrary/internal/cli/model"
)

// FlexInt64 accepts a JSON number or a numeric string; null decodes to 0.
type FlexInt64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// 5042.0 встречается у бэкендов, сериализующих числа как double
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || fv != float64(int64(fv)) {
			return fmt.Errorf("invalid integer %q", s)
		}
		v = int64(fv)
	}
	*f = FlexInt64(v)
	return nil
}

// AppMetadataDTO — метаданные в том виде, как их отдаёт бэкенд.
// Старые записи хранят app/lang одиночными строками.
type AppMetadataDTO struct {
	Apps            []string `json:"apps"`
	App             string   `json:"app"`
	Langs           []string `json:"langs"`
	Lang            string   `json:"lang"`
	UsageCode       string   `json:"usageCode"`
	Version         string   `json:"version"`
	CustomTags      []string `json:"customTags"`
	TargetPlatforms []string `json:"targetPlatforms"`
}

// ImageDTO — сырая запись изображения из GET /api/images.
type ImageDTO struct {
	GlobalID               FlexInt64       `json:"globalId"`
	Name                   string          `json:"name"`
	Description            *string         `json:"description"`
	OriginalPath           string          `json:"originalPath"`
	LibraryFilePath        string          `json:"libraryFilePath"`
	Category               *string         `json:"category"`
	Subcategory            *string         `json:"subcategory"`
	Tags                   []string        `json:"tags"`
	ImageWidth             FlexInt64       `json:"imageWidth"`
	ImageHeight            FlexInt64       `json:"imageHeight"`
	HasAlphaChannel        bool            `json:"hasAlphaChannel"`
	AzureBlobURL           *string         `json:"azureBlobUrl"`
	CDNURL                 *string         `json:"cdnUrl"`
	LocalLastUpdatedUTC    string          `json:"localLastUpdatedUtc"`
	CloudLastUpdatedUTC    *string         `json:"cloudLastUpdatedUtc"`
	CreatedDate            string          `json:"createdDate"`
	IsDeleted              bool            `json:"isDeleted"`
	IsActive               *bool           `json:"isActive"`
	SyncStatus             string          `json:"syncStatus"`
	FileSize               *FlexInt64      `json:"fileSize"`
	FileType               string          `json:"fileType"`
	ThumbnailURL           string          `json:"thumbnailUrl"`
	AppMetadata            *AppMetadataDTO `json:"appMetadata"`
	LinkedProductGlobalIDs []FlexInt64     `json:"linkedProductGlobalIds"`
}

// ProductDTO — продукт из /api/products и /api/get-products.
type ProductDTO struct {
	GlobalID   FlexInt64 `json:"globalId"`
	ModuleID   string    `json:"moduleID"`
	ModuleName string    `json:"moduleName"`
}

// ImageUpdate — тело POST /api/images/{id}/update.
type ImageUpdate struct {
	Description            string            `json:"description"`
	Category               string            `json:"category"`
	Tags                   []string          `json:"tags"`
	AppMetadata            model.AppMetadata `json:"appMetadata"`
	LinkedProductGlobalIDs []int64           `json:"linkedProductGlobalIds"`
}

// DeletionState is one item of POST /api/images/sync-deleted.
type DeletionState struct {
	GlobalID  int64 `json:"globalId"`
	IsDeleted bool  `json:"isDeleted"`
}

// UploadResult correlates a staged record with what the backend assigned.
type UploadResult struct {
	OriginalID     int64
	NewID          int64
	BlobURL        string
	CloudTimestamp string
}

// uploadEnvelope is the JSON carried in the "metadata" multipart field.
type uploadEnvelope struct {
	ClientGlobalID         int64             `json:"clientGlobalId"`
	Name                   string            `json:"name"`
	OriginalPath           string            `json:"originalPath"`
	LibraryFilePath        string            `json:"libraryFilePath"`
	Category               string            `json:"category"`
	Subcategory            string            `json:"subcategory"`
	Tags                   []string          `json:"tags"`
	ImageWidth             int               `json:"imageWidth"`
	ImageHeight            int               `json:"imageHeight"`
	HasAlphaChannel        bool              `json:"hasAlphaChannel"`
	LocalLastUpdatedUTC    string            `json:"localLastUpdatedUtc"`
	CreatedDate            string            `json:"createdDate"`
	IsDeleted              bool              `json:"isDeleted"`
	IsActive               bool              `json:"isActive"`
	FileSize               int64             `json:"fileSize"`
	FileType               string            `json:"fileType"`
	AppMetadata            model.AppMetadata `json:"appMetadata"`
	Description            string            `json:"description"`
	LinkedProductGlobalIDs []string          `json:"linkedProductGlobalIds"`
}

type uploadResponse struct {
	Metadata *struct {
		GlobalID            *FlexInt64 `json:"GlobalId"`
		AzureBlobURL        string     `json:"AzureBlobUrl"`
		CloudLastUpdatedUTC string     `json:"CloudLastUpdatedUtc"`
	} `json:"metadata"`
}

type linkedProductsResponse struct {
	LinkedProductGlobalIDs []FlexInt64 `json:"linkedProductGlobalIds"`
}
