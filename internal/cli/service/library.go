package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/media"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/repo"
	"ImageLibrary/internal/cli/store"

	"go.uber.org/zap"
)

// ErrNotFound — запись с таким id отсутствует в рабочем наборе.
var ErrNotFound = store.ErrNotFound

// ErrSyncInProgress — набор занят синхронизацией, изменение или второй Sync отклонены.
var ErrSyncInProgress = errors.New("sync in progress")

// Options tune a Library.
type Options struct {
	// UploadConcurrency ограничивает число параллельных загрузок (по умолчанию 1).
	UploadConcurrency int
	// DefaultApps используется Load, когда приложения не указаны.
	DefaultApps []string
}

// Library — единственная точка изменения коллекции: загрузка, staging,
// правки, удаление и синхронизация.
type Library struct {
	store    *store.Store
	gw       Gateway
	syncer   *Syncer
	previews *media.Previews
	settings repo.SettingsStore
	log      *zap.SugaredLogger
	opts     Options

	mu       sync.RWMutex
	defaults model.AppMetadata

	// opMu: Sync держит его эксклюзивно весь прогон, изменения набора — на чтение.
	opMu    sync.RWMutex
	syncing atomic.Bool

	readFile func(string) ([]byte, error)
	now      func() time.Time
}

// NewLibrary wires a library. previews and settings may be nil.
func NewLibrary(gw Gateway, settings repo.SettingsStore, previews *media.Previews, log *zap.SugaredLogger, opts Options) *Library {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	st := store.New()
	l := &Library{
		store:    st,
		gw:       gw,
		syncer:   NewSyncer(st, gw, previews, opts.UploadConcurrency, log),
		previews: previews,
		settings: settings,
		log:      log,
		opts:     opts,
		defaults: model.AppMetadata{}.Normalize(),
		readFile: os.ReadFile,
		now:      time.Now,
	}
	if settings != nil {
		m, err := settings.Load()
		if err != nil {
			log.Warnw("settings unavailable, using empty defaults", "error", err)
		}
		l.defaults = m.Normalize()
	}
	return l
}

// Seed restores a saved working set without any network call.
func (l *Library) Seed(records []model.ImageRecord) {
	l.store.Replace(records)
}

// Load replaces the collection with the backend listing. On failure the
// collection is left empty and the error is returned.
func (l *Library) Load(ctx context.Context, apps []string) error {
	if !l.opMu.TryRLock() {
		return ErrSyncInProgress
	}
	defer l.opMu.RUnlock()
	if len(apps) == 0 {
		apps = l.opts.DefaultApps
	}
	if len(apps) == 0 {
		apps = l.Settings().Apps
	}
	dtos, err := l.gw.FetchImages(ctx, apps)
	l.releasePreviews()
	if err != nil {
		l.store.Replace(nil)
		l.log.Errorw("load failed", "apps", apps, "error", err)
		return err
	}
	l.store.Replace(api.ToRecords(dtos))
	l.log.Infow("library loaded", "apps", apps, "count", len(dtos))
	return nil
}

// Filter returns the visible records for q.
func (l *Library) Filter(q store.Query) []model.ImageRecord { return l.store.Filter(q) }

// Stats returns summary counters.
func (l *Library) Stats() store.Stats { return l.store.Stats() }

// Get returns one record.
func (l *Library) Get(id int64) (model.ImageRecord, error) {
	r, ok := l.store.Get(id)
	if !ok {
		return model.ImageRecord{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, nil
}

// Snapshot returns the whole collection for persistence.
func (l *Library) Snapshot() []model.ImageRecord { return l.store.All() }

// Stage reads local files and prepends them as pending records. meta overrides
// the global defaults. Either every file is staged or none.
func (l *Library) Stage(ctx context.Context, paths []string, meta *model.AppMetadata) ([]model.ImageRecord, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to stage")
	}
	if !l.opMu.TryRLock() {
		return nil, ErrSyncInProgress
	}
	defer l.opMu.RUnlock()
	merged := l.Settings()
	if meta != nil {
		merged = meta.Normalize()
	}
	now := l.now().UTC().Format(time.RFC3339)

	staged := make([]model.ImageRecord, 0, len(paths))
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := l.readFile(p)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", p, err)
		}
		info, err := media.Probe(p, data)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", p, err)
		}
		id := l.store.NextStagedID(i)
		base := filepath.Base(p)
		ext := strings.ToLower(filepath.Ext(base))
		staged = append(staged, model.ImageRecord{
			GlobalID:               id,
			Name:                   strings.TrimSuffix(base, filepath.Ext(base)),
			OriginalPath:           p,
			LibraryFilePath:        fmt.Sprintf("library/%d%s", id, ext),
			Tags:                   []string{},
			ImageWidth:             info.Width,
			ImageHeight:            info.Height,
			HasAlphaChannel:        info.HasAlpha,
			LocalLastUpdatedUTC:    now,
			CreatedDate:            now,
			IsActive:               true,
			SyncStatus:             model.StatusPending,
			FileSize:               int64(len(data)),
			FileType:               info.MIMEType,
			AppMetadata:            merged.Clone(),
			File:                   &model.FilePayload{FileName: base, MIMEType: info.MIMEType, Data: data},
			LinkedProductGlobalIDs: []int64{},
		})
	}
	if err := l.store.Prepend(staged...); err != nil {
		return nil, err
	}
	for _, r := range staged {
		l.createPreview(r)
	}
	l.log.Infow("images staged", "count", len(staged))
	return staged, nil
}

func (l *Library) createPreview(r model.ImageRecord) {
	if l.previews == nil || r.File == nil {
		return
	}
	if _, err := l.previews.Create(r.GlobalID, r.File.Data); err != nil {
		l.log.Debugw("no preview", "id", r.GlobalID, "error", err)
	}
}

// Preview returns the preview file of a staged record, rendering it on demand.
func (l *Library) Preview(id int64) (string, error) {
	if l.previews == nil {
		return "", errors.New("previews disabled")
	}
	if p, ok := l.previews.Path(id); ok {
		return p, nil
	}
	r, err := l.Get(id)
	if err != nil {
		return "", err
	}
	if r.File == nil {
		return "", fmt.Errorf("image %d has no local file", id)
	}
	return l.previews.Create(id, r.File.Data)
}

// Delete hides a record; the deletion is pushed by the next Sync.
func (l *Library) Delete(id int64) error {
	return l.mutate(func() error { return l.store.MarkDeleted(id) })
}

// Restore reverses Delete.
func (l *Library) Restore(id int64) error {
	return l.mutate(func() error { return l.store.MarkRestored(id) })
}

// mutate runs fn unless a sync pass owns the collection.
func (l *Library) mutate(fn func() error) error {
	if !l.opMu.TryRLock() {
		return ErrSyncInProgress
	}
	defer l.opMu.RUnlock()
	return fn()
}

// Edit changes editable fields. Persisted records are written through to the
// backend first and changed locally only when that succeeds; staged records
// change locally and carry the new values in their upload.
func (l *Library) Edit(ctx context.Context, id int64, e store.Edit) error {
	if !l.opMu.TryRLock() {
		return ErrSyncInProgress
	}
	defer l.opMu.RUnlock()
	rec, err := l.Get(id)
	if err != nil {
		return err
	}
	e.Tags = model.AddUnique(nil, e.Tags...)
	e.AppMetadata = e.AppMetadata.Normalize()
	if e.LinkedProductGlobalIDs == nil {
		e.LinkedProductGlobalIDs = []int64{}
	}
	if !rec.IsStaged() {
		if err := l.gw.UpdateImage(ctx, id, api.ImageUpdate{
			Description:            e.Description,
			Category:               e.Category,
			Tags:                   e.Tags,
			AppMetadata:            e.AppMetadata,
			LinkedProductGlobalIDs: e.LinkedProductGlobalIDs,
		}); err != nil {
			return err
		}
	}
	if !l.store.ApplyEdit(id, e) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// Sync pushes staged uploads and deletion state. Only one pass runs at a time:
// a concurrent call gets ErrSyncInProgress, and so does any change of the
// collection attempted while the pass is running. Sync itself waits for
// changes already in flight.
func (l *Library) Sync(ctx context.Context) (SyncReport, error) {
	if !l.syncing.CompareAndSwap(false, true) {
		return SyncReport{}, ErrSyncInProgress
	}
	defer l.syncing.Store(false)
	l.opMu.Lock()
	defer l.opMu.Unlock()
	return l.syncer.Sync(ctx)
}

// Categories returns backend categories, or an empty list when unavailable.
func (l *Library) Categories(ctx context.Context) []string { return l.gw.FetchCategories(ctx) }

// Tags returns backend tags, or an empty list when unavailable.
func (l *Library) Tags(ctx context.Context) []string { return l.gw.FetchTags(ctx) }

// CreateTag registers a tag on the backend.
func (l *Library) CreateTag(ctx context.Context, tag string) error { return l.gw.CreateTag(ctx, tag) }

// Products searches products.
func (l *Library) Products(ctx context.Context, search string) ([]model.Product, error) {
	return l.gw.FetchProducts(ctx, strings.TrimSpace(search))
}

// AllProducts returns every product.
func (l *Library) AllProducts(ctx context.Context) ([]model.Product, error) {
	return l.gw.FetchAllProducts(ctx)
}

// LinkedProducts fetches the products linked to a persisted record. The answer
// is applied to the record only if ctx is still live when it arrives.
func (l *Library) LinkedProducts(ctx context.Context, id int64) ([]int64, error) {
	rec, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if rec.IsStaged() {
		return append([]int64{}, rec.LinkedProductGlobalIDs...), nil
	}
	ids, err := l.gw.FetchImageLinkedProducts(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.store.SetLinkedProducts(id, ids)
	return ids, nil
}

// Settings returns a copy of the global default metadata.
func (l *Library) Settings() model.AppMetadata {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.defaults.Clone()
}

// SaveSettings persists and applies new global defaults. Already staged
// records keep the metadata they were staged with.
func (l *Library) SaveSettings(m model.AppMetadata) error {
	m = m.Normalize()
	if l.settings != nil {
		if err := l.settings.Save(m); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	l.mu.Lock()
	l.defaults = m.Clone()
	l.mu.Unlock()
	return nil
}

// Close releases preview files.
func (l *Library) Close() error {
	if l.previews == nil {
		return nil
	}
	return l.previews.Close()
}

func (l *Library) releasePreviews() {
	if l.previews != nil {
		l.previews.ReleaseAll()
	}
}
