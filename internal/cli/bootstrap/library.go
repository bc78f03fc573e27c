package bootstrap

import (
	"errors"
	"fmt"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/media"
	"ImageLibrary/internal/cli/repo"
	fsrepo "ImageLibrary/internal/cli/repo/fs"
	reposqlite "ImageLibrary/internal/cli/repo/sqlite"
	"ImageLibrary/internal/cli/service"
	"ImageLibrary/internal/config"

	"go.uber.org/zap"
)

// OpenWorkspace открывает БД рабочего набора, выполняет миграции
// и возвращает (repo, cleanup, error). cleanup закрывает соединение с БД.
func OpenWorkspace(cfg *config.Config) (repo.WorkspaceRepository, func() error, error) {
	w, _, err := reposqlite.Open(cfg.ClientDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open workspace db: %w", err)
	}
	if err := w.Migrate(); err != nil {
		_ = w.Close()
		return nil, nil, fmt.Errorf("migrate workspace db: %w", err)
	}
	cleanup := func() error { return w.Close() }
	return w, cleanup, nil
}

// Session — библиотека, восстановленная из рабочего набора.
type Session struct {
	Library   *service.Library
	Workspace repo.WorkspaceRepository
}

// Save сохраняет текущий набор в рабочую БД.
func (s *Session) Save() error {
	if err := s.Workspace.SaveAll(s.Library.Snapshot()); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	return nil
}

// OpenLibrary собирает Library: шлюз к бэкенду, настройки, превью и сохранённый набор.
func OpenLibrary(cfg *config.Config, log *zap.SugaredLogger) (*Session, func() error, error) {
	if cfg == nil {
		return nil, nil, errors.New("nil config")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ws, closeWS, err := OpenWorkspace(cfg)
	if err != nil {
		return nil, nil, err
	}
	records, err := ws.LoadAll()
	if err != nil {
		_ = closeWS()
		return nil, nil, fmt.Errorf("load workspace: %w", err)
	}
	previews, err := media.NewPreviews("", log)
	if err != nil {
		_ = closeWS()
		return nil, nil, err
	}

	gw := api.NewClient(cfg.ServerURL, cfg.HTTPTimeout, log)
	lib := service.NewLibrary(gw, fsrepo.SettingsFSStore{Path: cfg.SettingsFile}, previews, log, service.Options{
		UploadConcurrency: cfg.UploadConcurrency,
		DefaultApps:       cfg.DefaultApps,
	})
	lib.Seed(records)

	cleanup := func() error {
		return errors.Join(lib.Close(), closeWS())
	}
	return &Session{Library: lib, Workspace: ws}, cleanup, nil
}
