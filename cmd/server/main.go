package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"
	"ImageLibrary/internal/handlers"
	"ImageLibrary/internal/logger"
	"ImageLibrary/internal/middleware"
)

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap по уровню из конфига
	sugar, sync := logger.NewSugared(cfg.LogLevel)
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, done, err := bootstrap.OpenLibrary(cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to open library", "error", err)
	}
	defer func() {
		if err := done(); err != nil {
			sugar.Errorw("close library", "error", err)
		}
	}()

	sugar.Infow("Config",
		"ServerURL", cfg.ServerURL,
		"ListenAddr", cfg.ListenAddr,
		"ClientDBPath", cfg.ClientDBPath,
		"UploadConcurrency", cfg.UploadConcurrency,
	)

	h := handlers.NewHandler(session.Library, session.Workspace, sugar)
	if err := handlers.Serve(ctx, cfg.ListenAddr, h.Router, sugar); err != nil {
		sugar.Errorw("Server failed", "error", err)
		return
	}
	if err := session.Save(); err != nil {
		sugar.Errorw("save workspace", "error", err)
	}
}
