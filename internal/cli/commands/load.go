package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

type loadCmd struct{}

func (loadCmd) Name() string { return "load" }
func (loadCmd) Description() string {
	return "Загрузить библиотеку с бэкенда (заменяет рабочий набор)"
}
func (loadCmd) Usage() string { return "load [--apps A,B]" }

func (loadCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("load")
	apps := fs.String("apps", "", "приложения через запятую")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	fmt.Fprintln(Out, "→ Загрузка библиотеки…")
	// при ошибке рабочий набор на диске не трогаем
	return withSession(cfg, true, func(s *bootstrap.Session) error {
		if err := s.Library.Load(ctx, config.SplitList(*apps)); err != nil {
			return fmt.Errorf("load images: %w", err)
		}
		fmt.Fprintf(Out, "✓ Загружено изображений: %d\n", s.Library.Stats().Total)
		return nil
	})
}

func init() { RegisterCmd(loadCmd{}) }
