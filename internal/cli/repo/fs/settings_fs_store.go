package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/repo"

	"gopkg.in/yaml.v3"
)

// SettingsFileName — имя файла настроек в каталоге конфигурации.
const SettingsFileName = "settings.yaml"

// SettingsFSStore — YAML-файл с глобальными метаданными по умолчанию.
type SettingsFSStore struct {
	// Path переопределяет расположение файла; пусто — <config dir>/ImageLibrary/settings.yaml.
	Path string
}

var _ repo.SettingsStore = SettingsFSStore{}

type settingsFile struct {
	Defaults model.AppMetadata `yaml:"defaults"`
}

func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ImageLibrary"), nil
}

func (s SettingsFSStore) path() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// Load читает настройки. Отсутствующий файл — пустые нормализованные значения.
func (s SettingsFSStore) Load() (model.AppMetadata, error) {
	p, err := s.path()
	if err != nil {
		return model.AppMetadata{}.Normalize(), err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return model.AppMetadata{}.Normalize(), nil
	}
	if err != nil {
		return model.AppMetadata{}.Normalize(), err
	}
	var f settingsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return model.AppMetadata{}.Normalize(), fmt.Errorf("parse %s: %w", p, err)
	}
	return f.Defaults.Normalize(), nil
}

// Save сохраняет настройки, создавая каталог при необходимости.
func (s SettingsFSStore) Save(m model.AppMetadata) error {
	p, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(settingsFile{Defaults: m.Normalize()})
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
