package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/zalbum/albumdb/internal/config"
	"github.com/zalbum/albumdb/internal/ctl"
	"github.com/zalbum/albumdb/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: albumctl <set-connection|ensure-indexes|add-user> [flags]")
		os.Exit(2)
	}
	command := os.Args[1]
	// Flags follow the subcommand.
	os.Args = append(os.Args[:1], os.Args[2:]...)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	a := ctl.NewApp(cfg, logger)
	if err := a.Run(ctx, command); err != nil {
		log.Fatalf("%v", err)
	}
}
