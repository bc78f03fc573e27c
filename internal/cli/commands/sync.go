package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Загрузить ожидающие изображения и отправить состояние удаления"
}
func (syncCmd) Usage() string { return "sync" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	fmt.Fprintln(Out, "→ Запуск синхронизации…")
	s, done, err := bootstrap.OpenLibrary(cfg, Log)
	if err != nil {
		return err
	}
	defer func() { _ = done() }()

	rep, syncErr := s.Library.Sync(ctx)
	// статусы ошибок и уже загруженные записи сохраняем в любом случае
	if err := s.Save(); err != nil {
		return err
	}
	if syncErr != nil {
		fmt.Fprintf(Out, "× Синхронизация прервана, ожидают загрузки: %d\n", s.Library.Stats().Pending)
		return syncErr
	}
	if rep.NothingToSync {
		fmt.Fprintln(Out, "• Нечего синхронизировать")
		return nil
	}
	if rep.Uploaded > 0 {
		fmt.Fprintf(Out, "✓ Загружено: %d\n", rep.Uploaded)
	}
	if rep.Reconciled > 0 {
		fmt.Fprintf(Out, "✓ Состояние удаления отправлено: %d\n", rep.Reconciled)
	}
	return nil
}

func init() { RegisterCmd(syncCmd{}) }
