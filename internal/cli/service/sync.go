package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/media"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncReport — итог одного прогона синхронизации.
type SyncReport struct {
	Uploaded      int
	Reconciled    int
	NothingToSync bool
}

// Syncer отправляет staged-записи и состояние удаления на бэкенд.
type Syncer struct {
	store       *store.Store
	gw          Gateway
	previews    *media.Previews
	concurrency int
	log         *zap.SugaredLogger
	now         func() time.Time
}

// NewSyncer creates an orchestrator. concurrency < 1 means strictly sequential uploads.
func NewSyncer(st *store.Store, gw Gateway, previews *media.Previews, concurrency int, log *zap.SugaredLogger) *Syncer {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Syncer{store: st, gw: gw, previews: previews, concurrency: concurrency, log: log, now: time.Now}
}

// Partition splits the collection into records to upload and persisted records
// whose state has to be pushed.
func Partition(records []model.ImageRecord) (toUpload, toReconcile []model.ImageRecord) {
	for _, r := range records {
		if r.IsStaged() {
			if !r.IsDeleted && r.File != nil &&
				(r.SyncStatus == model.StatusPending || r.SyncStatus == model.StatusError) {
				toUpload = append(toUpload, r)
			}
			continue
		}
		if r.DeletionDirty || (r.SyncStatus != model.StatusPending && r.SyncStatus != model.StatusUpToDate) {
			toReconcile = append(toReconcile, r)
		}
	}
	return toUpload, toReconcile
}

// Sync runs one pass. The first failed upload stops the pass: that record is
// marked as error, records not attempted stay pending and the error is returned.
// Every successful upload is reconciled right away, so a re-run is safe.
func (s *Syncer) Sync(ctx context.Context) (SyncReport, error) {
	toUpload, toReconcile := Partition(s.store.All())
	if len(toUpload) == 0 && len(toReconcile) == 0 {
		return SyncReport{NothingToSync: true}, nil
	}
	s.log.Infow("sync started", "upload", len(toUpload), "reconcile", len(toReconcile))

	uploaded, err := s.upload(ctx, toUpload)
	report := SyncReport{Uploaded: uploaded}
	if err != nil {
		s.log.Errorw("sync aborted", "uploaded", uploaded, "error", err)
		return report, err
	}

	if len(toReconcile) > 0 {
		items := make([]api.DeletionState, 0, len(toReconcile))
		ids := make([]int64, 0, len(toReconcile))
		for _, r := range toReconcile {
			items = append(items, api.DeletionState{GlobalID: r.GlobalID, IsDeleted: r.IsDeleted})
			ids = append(ids, r.GlobalID)
		}
		if _, err := s.gw.SyncDeleted(ctx, items); err != nil {
			s.log.Errorw("sync deleted failed", "count", len(items), "error", err)
			return report, err
		}
		s.store.MarkUpToDate(ids...)
		report.Reconciled = len(ids)
	}
	s.log.Infow("sync finished", "uploaded", report.Uploaded, "reconciled", report.Reconciled)
	return report, nil
}

func (s *Syncer) upload(ctx context.Context, records []model.ImageRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	var (
		mu       sync.Mutex
		failed   bool
		uploaded int
	)
	for _, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// группа уже отменена: запись остаётся pending
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.gw.SyncImage(gctx, rec)
			if err != nil {
				mu.Lock()
				first := !failed
				failed = true
				mu.Unlock()
				if first && ctx.Err() == nil && !errors.Is(err, context.Canceled) {
					s.store.MarkSyncError(rec.GlobalID, err.Error(), s.now())
				}
				return err
			}
			if err := s.store.ReconcileSyncResult(res.OriginalID, store.Patch{
				NewID:          res.NewID,
				BlobURL:        res.BlobURL,
				CloudTimestamp: res.CloudTimestamp,
			}); err != nil {
				return err
			}
			if s.previews != nil {
				s.previews.Release(res.OriginalID)
			}
			mu.Lock()
			uploaded++
			mu.Unlock()
			s.log.Infow("image uploaded", "staged_id", res.OriginalID, "id", res.NewID)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		// отмена до старта очередной загрузки не даёт ошибки из группы
		err = ctx.Err()
	}
	return uploaded, err
}
