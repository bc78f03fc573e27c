package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

// toggleCmd — delete и restore: меняют флаг удаления, отправка при sync.
type toggleCmd struct {
	name, desc, done string
	apply            func(s *bootstrap.Session, id int64) error
}

func (c toggleCmd) Name() string        { return c.name }
func (c toggleCmd) Description() string { return c.desc }
func (c toggleCmd) Usage() string       { return c.name + " <id>..." }

func (c toggleCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return withSession(cfg, true, func(s *bootstrap.Session) error {
		for _, id := range ids {
			if err := c.apply(s, id); err != nil {
				return fmt.Errorf("#%d: %w", id, err)
			}
			fmt.Fprintf(Out, "✓ #%d %s\n", id, c.done)
		}
		return nil
	})
}

func init() {
	RegisterCmd(toggleCmd{
		name: "delete",
		desc: "Пометить изображения удалёнными (отправка при sync)",
		done: "помечена удалённой",
		apply: func(s *bootstrap.Session, id int64) error {
			return s.Library.Delete(id)
		},
	})
	RegisterCmd(toggleCmd{
		name: "restore",
		desc: "Восстановить удалённые изображения",
		done: "восстановлена",
		apply: func(s *bootstrap.Session, id int64) error {
			return s.Library.Restore(id)
		},
	})
}
