package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ImageLibrary/internal/cli/commands"
	"ImageLibrary/internal/config"
	"ImageLibrary/internal/logger"
	"ImageLibrary/internal/middleware"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	sugar, sync := logger.NewSugared(cfg.LogLevel)
	commands.SetLogger(sugar)
	middleware.SetLogger(sugar)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// dispatcher
	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	sync()
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("ImageLibrary CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
