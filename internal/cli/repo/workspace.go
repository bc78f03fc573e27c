package repo

import "ImageLibrary/internal/cli/model"

// WorkspaceRepository определяет порт хранения рабочего набора между запусками CLI.
type WorkspaceRepository interface {
	// LoadAll возвращает сохранённые записи в исходном порядке (вместе с файлами staged-записей).
	LoadAll() ([]model.ImageRecord, error)

	// SaveAll атомарно заменяет сохранённый набор.
	SaveAll(records []model.ImageRecord) error

	Close() error
}

// SettingsStore хранит глобальные метаданные по умолчанию.
type SettingsStore interface {
	Load() (model.AppMetadata, error)
	Save(m model.AppMetadata) error
}
