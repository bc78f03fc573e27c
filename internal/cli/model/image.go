package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SyncStatus — состояние расхождения локальной записи с бэкендом.
type SyncStatus string

const (
	StatusUpToDate SyncStatus = "up-to-date"
	StatusPending  SyncStatus = "pending"
	StatusConflict SyncStatus = "conflict"
	StatusEditing  SyncStatus = "editing"
	StatusError    SyncStatus = "error"
)

var statusLabels = map[SyncStatus]string{
	StatusUpToDate: "Up to Date",
	StatusPending:  "Pending Upload",
	StatusConflict: "Cloud Newer",
	StatusEditing:  "Editing",
	StatusError:    "Sync Error",
}

// Statuses returns all known sync statuses in display order.
func Statuses() []SyncStatus {
	return []SyncStatus{StatusUpToDate, StatusPending, StatusConflict, StatusEditing, StatusError}
}

// ParseSyncStatus validates s against the known statuses.
func ParseSyncStatus(s string) (SyncStatus, error) {
	st := SyncStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown sync status: %q", s)
	}
	return st, nil
}

// Label returns a human readable badge text.
func (s SyncStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// FilePayload — содержимое файла, ещё не загруженного на бэкенд.
// Data неизменяемо после staging: копии записей разделяют один буфер.
type FilePayload struct {
	FileName string
	MIMEType string
	Data     []byte
}

// ImageRecord — один графический ассет библиотеки.
// GlobalID < 0 означает, что запись существует только локально.
type ImageRecord struct {
	GlobalID        int64
	Name            string
	Description     string
	OriginalPath    string
	LibraryFilePath string
	Category        string
	Subcategory     string
	Tags            []string

	ImageWidth      int
	ImageHeight     int
	HasAlphaChannel bool

	AzureBlobURL string
	CDNURL       string
	ThumbnailURL string

	LocalLastUpdatedUTC string
	CloudLastUpdatedUTC string
	CreatedDate         string

	IsDeleted bool
	IsActive  bool

	SyncStatus      SyncStatus
	LastSyncAttempt string
	SyncError       string
	// DeletionDirty is set when IsDeleted changed locally and was not pushed yet.
	DeletionDirty bool

	FileSize int64
	FileType string

	AppMetadata            AppMetadata
	File                   *FilePayload
	LinkedProductGlobalIDs []int64
}

// IsStaged reports whether the record was never persisted remotely.
func (r ImageRecord) IsStaged() bool { return r.GlobalID < 0 }

// Clone returns a copy whose slices are independent of r, so callers may not
// mutate the store through them. File bytes are immutable and shared.
func (r ImageRecord) Clone() ImageRecord {
	c := r
	c.Tags = cloneStrings(r.Tags)
	c.AppMetadata = r.AppMetadata.Clone()
	if r.LinkedProductGlobalIDs != nil {
		c.LinkedProductGlobalIDs = append([]int64{}, r.LinkedProductGlobalIDs...)
	}
	if r.File != nil {
		f := *r.File
		c.File = &f
	}
	return c
}

// Extension returns the lower-case file extension without the dot.
func (r ImageRecord) Extension() string {
	src := r.OriginalPath
	if r.File != nil && r.File.FileName != "" {
		src = r.File.FileName
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}
