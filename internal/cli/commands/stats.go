package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
)

type statsCmd struct{}

func (statsCmd) Name() string { return "stats" }
func (statsCmd) Description() string {
	return "Сводка: всего, ожидают загрузки, конфликты, удалённые"
}
func (statsCmd) Usage() string { return "stats" }

func (statsCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withSession(cfg, false, func(s *bootstrap.Session) error {
		st := s.Library.Stats()
		fmt.Fprintf(Out, "Total:     %d\n", st.Total)
		fmt.Fprintf(Out, "Pending:   %d\n", st.Pending)
		fmt.Fprintf(Out, "Conflicts: %d\n", st.Conflicts)
		fmt.Fprintf(Out, "Deleted:   %d\n", st.Deleted)
		return nil
	})
}

func init() { RegisterCmd(statsCmd{}) }
