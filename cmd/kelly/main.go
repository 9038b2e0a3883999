package main

import (
	"context"
	"log"
	"os"

	"kelly-ai-client/internal/bootstrap"
	"kelly-ai-client/internal/config"
	"kelly-ai-client/internal/pkg/logger"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	// Logs go to the file only so they never interleave with the chat.
	sysLogger := logger.NewIsolatedLogger(cfg.App.LogFilePath)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		log.Fatalf("Unable to start client: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	container.ConversationService.Load(ctx)

	r := newREPL(container, os.Stdin, color.Output)
	r.Run(ctx)
}
