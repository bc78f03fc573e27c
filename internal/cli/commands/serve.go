package commands

import (
	"context"
	"fmt"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
	"ImageLibrary/internal/handlers"
)

type serveCmd struct{}

func (serveCmd) Name() string { return "serve" }
func (serveCmd) Description() string {
	return "Запустить локальный HTTP API библиотеки"
}
func (serveCmd) Usage() string { return "serve [--listen host:port]" }

func (serveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("serve")
	addr := fs.String("listen", cfg.ListenAddr, "адрес HTTP API")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *addr == "" {
		return ErrUsage
	}
	return withSession(cfg, true, func(s *bootstrap.Session) error {
		h := handlers.NewHandler(s.Library, s.Workspace, Log)
		fmt.Fprintf(Out, "→ HTTP API: http://%s/api/library\n", *addr)
		return handlers.Serve(ctx, *addr, h.Router, Log)
	})
}

func init() { RegisterCmd(serveCmd{}) }
