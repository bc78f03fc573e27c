package api

import (
	"strconv"

	"ImageLibrary/internal/cli/model"
)

// ToRecord maps a backend DTO into a local record. Defaults:
//   - syncStatus: empty or unknown → up-to-date (backend rows are synced by definition)
//   - isActive: absent → true
//   - fileType: absent → guessed from name/path extension, else application/octet-stream
//   - tags, appMetadata lists, linked ids: absent → empty
//   - appMetadata.app / lang (legacy scalars) → apps / langs when lists are empty
//   - thumbnailUrl: absent → cdnUrl → azureBlobUrl
func ToRecord(d ImageDTO) model.ImageRecord {
	r := model.ImageRecord{
		GlobalID:            int64(d.GlobalID),
		Name:                d.Name,
		Description:         deref(d.Description),
		OriginalPath:        d.OriginalPath,
		LibraryFilePath:     d.LibraryFilePath,
		Category:            deref(d.Category),
		Subcategory:         deref(d.Subcategory),
		Tags:                nonNil(d.Tags),
		ImageWidth:          int(d.ImageWidth),
		ImageHeight:         int(d.ImageHeight),
		HasAlphaChannel:     d.HasAlphaChannel,
		AzureBlobURL:        deref(d.AzureBlobURL),
		CDNURL:              deref(d.CDNURL),
		LocalLastUpdatedUTC: d.LocalLastUpdatedUTC,
		CloudLastUpdatedUTC: deref(d.CloudLastUpdatedUTC),
		CreatedDate:         d.CreatedDate,
		IsDeleted:           d.IsDeleted,
		IsActive:            true,
		SyncStatus:          model.StatusUpToDate,
		FileType:            d.FileType,
		ThumbnailURL:        d.ThumbnailURL,
		AppMetadata:         toAppMetadata(d.AppMetadata),
	}
	if d.IsActive != nil {
		r.IsActive = *d.IsActive
	}
	if st, err := model.ParseSyncStatus(d.SyncStatus); err == nil {
		r.SyncStatus = st
	}
	if d.FileSize != nil {
		r.FileSize = int64(*d.FileSize)
	}
	if r.FileType == "" {
		name := d.LibraryFilePath
		if name == "" {
			name = d.OriginalPath
		}
		r.FileType = model.MIMEFromName(name)
	}
	if r.ThumbnailURL == "" {
		r.ThumbnailURL = r.CDNURL
	}
	if r.ThumbnailURL == "" {
		r.ThumbnailURL = r.AzureBlobURL
	}
	r.LinkedProductGlobalIDs = make([]int64, 0, len(d.LinkedProductGlobalIDs))
	for _, id := range d.LinkedProductGlobalIDs {
		r.LinkedProductGlobalIDs = append(r.LinkedProductGlobalIDs, int64(id))
	}
	return r
}

// ToRecords maps a whole listing.
func ToRecords(list []ImageDTO) []model.ImageRecord {
	out := make([]model.ImageRecord, 0, len(list))
	for _, d := range list {
		out = append(out, ToRecord(d))
	}
	return out
}

// ToProduct maps a product DTO.
func ToProduct(d ProductDTO) model.Product {
	return model.Product{GlobalID: int64(d.GlobalID), ModuleID: d.ModuleID, ModuleName: d.ModuleName}
}

func toAppMetadata(d *AppMetadataDTO) model.AppMetadata {
	if d == nil {
		return model.AppMetadata{}.Normalize()
	}
	m := model.AppMetadata{
		Apps:            d.Apps,
		Langs:           d.Langs,
		UsageCode:       d.UsageCode,
		Version:         d.Version,
		CustomTags:      d.CustomTags,
		TargetPlatforms: d.TargetPlatforms,
	}
	if len(m.Apps) == 0 && d.App != "" {
		m.Apps = []string{d.App}
	}
	if len(m.Langs) == 0 && d.Lang != "" {
		m.Langs = []string{d.Lang}
	}
	return m.Normalize()
}

func toEnvelope(r model.ImageRecord) uploadEnvelope {
	ids := make([]string, 0, len(r.LinkedProductGlobalIDs))
	for _, id := range r.LinkedProductGlobalIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return uploadEnvelope{
		ClientGlobalID:         r.GlobalID,
		Name:                   r.Name,
		OriginalPath:           r.OriginalPath,
		LibraryFilePath:        r.LibraryFilePath,
		Category:               r.Category,
		Subcategory:            r.Subcategory,
		Tags:                   nonNil(r.Tags),
		ImageWidth:             r.ImageWidth,
		ImageHeight:            r.ImageHeight,
		HasAlphaChannel:        r.HasAlphaChannel,
		LocalLastUpdatedUTC:    r.LocalLastUpdatedUTC,
		CreatedDate:            r.CreatedDate,
		IsDeleted:              r.IsDeleted,
		IsActive:               r.IsActive,
		FileSize:               r.FileSize,
		FileType:               r.FileType,
		AppMetadata:            r.AppMetadata.Normalize(),
		Description:            r.Description,
		LinkedProductGlobalIDs: ids,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
