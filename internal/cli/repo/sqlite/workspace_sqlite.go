package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/repo"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// DBFileName — имя файла БД внутри каталога рабочего набора.
const DBFileName = "workspace.sqlite"

// WorkspaceSQLite — рабочий набор библиотеки в локальной БД SQLite.
type WorkspaceSQLite struct {
	db *sql.DB
}

var _ repo.WorkspaceRepository = (*WorkspaceSQLite)(nil)

// DefaultDir returns <user config dir>/ImageLibrary.
func DefaultDir() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "ImageLibrary"), nil
}

// Open открывает (и создаёт при необходимости) файл БД в каталоге dir.
// Пустой dir означает DefaultDir. Вторым значением возвращается путь к БД.
func Open(dir string) (*WorkspaceSQLite, string, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	// один писатель: SaveAll из HTTP API не должен ловить SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return &WorkspaceSQLite{db: db}, dbPath, nil
}

// Close закрывает соединение с БД.
func (w *WorkspaceSQLite) Close() error {
	if w == nil || w.db == nil {
		return nil
	}
	return w.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
func (w *WorkspaceSQLite) Migrate() error {
	_, err := w.db.Exec(initialDDL())
	return err
}

const selectImages = `SELECT i.global_id, i.name, i.description, i.original_path, i.library_file_path,
  i.category, i.subcategory, i.tags, i.image_width, i.image_height, i.has_alpha,
  i.azure_blob_url, i.cdn_url, i.thumbnail_url,
  i.local_last_updated_utc, i.cloud_last_updated_utc, i.created_date,
  i.is_deleted, i.is_active, i.sync_status, i.last_sync_attempt, i.sync_error, i.deletion_dirty,
  i.file_size, i.file_type, i.app_metadata, i.linked_product_ids,
  p.file_name, p.mime_type, p.data
FROM images i LEFT JOIN payloads p ON p.image_id = i.global_id
ORDER BY i.position`

// LoadAll возвращает записи в сохранённом порядке.
func (w *WorkspaceSQLite) LoadAll() ([]model.ImageRecord, error) {
	rows, err := w.db.Query(selectImages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []model.ImageRecord{}
	for rows.Next() {
		var (
			r                             model.ImageRecord
			tags, meta, linked, status    string
			alpha, deleted, active, dirty int
			fileName, mimeType            sql.NullString
			data                          []byte
		)
		if err := rows.Scan(&r.GlobalID, &r.Name, &r.Description, &r.OriginalPath, &r.LibraryFilePath,
			&r.Category, &r.Subcategory, &tags, &r.ImageWidth, &r.ImageHeight, &alpha,
			&r.AzureBlobURL, &r.CDNURL, &r.ThumbnailURL,
			&r.LocalLastUpdatedUTC, &r.CloudLastUpdatedUTC, &r.CreatedDate,
			&deleted, &active, &status, &r.LastSyncAttempt, &r.SyncError, &dirty,
			&r.FileSize, &r.FileType, &meta, &linked,
			&fileName, &mimeType, &data); err != nil {
			return nil, err
		}
		r.HasAlphaChannel = alpha != 0
		r.IsDeleted = deleted != 0
		r.IsActive = active != 0
		r.DeletionDirty = dirty != 0
		st, err := model.ParseSyncStatus(status)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", r.GlobalID, err)
		}
		r.SyncStatus = st
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("image %d tags: %w", r.GlobalID, err)
		}
		if err := json.Unmarshal([]byte(meta), &r.AppMetadata); err != nil {
			return nil, fmt.Errorf("image %d appMetadata: %w", r.GlobalID, err)
		}
		r.AppMetadata = r.AppMetadata.Normalize()
		if err := json.Unmarshal([]byte(linked), &r.LinkedProductGlobalIDs); err != nil {
			return nil, fmt.Errorf("image %d linked products: %w", r.GlobalID, err)
		}
		if fileName.Valid {
			r.File = &model.FilePayload{FileName: fileName.String, MIMEType: mimeType.String, Data: data}
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// SaveAll заменяет сохранённый набор в одной транзакции.
func (w *WorkspaceSQLite) SaveAll(records []model.ImageRecord) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		// в случае ошибки или некоммита — откат
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM payloads`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM images`); err != nil {
		return err
	}
	for i, r := range records {
		tags, err := json.Marshal(nonNil(r.Tags))
		if err != nil {
			return err
		}
		meta, err := json.Marshal(r.AppMetadata.Normalize())
		if err != nil {
			return err
		}
		linked := r.LinkedProductGlobalIDs
		if linked == nil {
			linked = []int64{}
		}
		ids, err := json.Marshal(linked)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO images(
        global_id, position, name, description, original_path, library_file_path,
        category, subcategory, tags, image_width, image_height, has_alpha,
        azure_blob_url, cdn_url, thumbnail_url,
        local_last_updated_utc, cloud_last_updated_utc, created_date,
        is_deleted, is_active, sync_status, last_sync_attempt, sync_error, deletion_dirty,
        file_size, file_type, app_metadata, linked_product_ids
    ) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.GlobalID, i, r.Name, r.Description, r.OriginalPath, r.LibraryFilePath,
			r.Category, r.Subcategory, string(tags), r.ImageWidth, r.ImageHeight, boolInt(r.HasAlphaChannel),
			r.AzureBlobURL, r.CDNURL, r.ThumbnailURL,
			r.LocalLastUpdatedUTC, r.CloudLastUpdatedUTC, r.CreatedDate,
			boolInt(r.IsDeleted), boolInt(r.IsActive), string(r.SyncStatus), r.LastSyncAttempt, r.SyncError, boolInt(r.DeletionDirty),
			r.FileSize, r.FileType, string(meta), string(ids),
		); err != nil {
			return fmt.Errorf("save image %d: %w", r.GlobalID, err)
		}
		if r.File == nil {
			continue
		}
		data := r.File.Data
		if data == nil {
			data = []byte{}
		}
		if _, err := tx.Exec(`INSERT INTO payloads(id, image_id, file_name, mime_type, data) VALUES(?, ?, ?, ?, ?)`,
			uuid.NewString(), r.GlobalID, r.File.FileName, r.File.MIMEType, data); err != nil {
			return fmt.Errorf("save payload %d: %w", r.GlobalID, err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
