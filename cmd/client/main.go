package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/slidesmith/slidesmith/internal/client/cli"
	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/config"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/flagx"
	"github.com/slidesmith/slidesmith/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = run(context.Background(), cfg, logger)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorText(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := session.OpenDatabase(ctx, cfg.StatePath)
	if err != nil {
		return err
	}
	defer db.Close()

	store := session.NewStore(db, logger)
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	api, err := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	if err != nil {
		return err
	}

	app := cli.NewApp(cfg, api, store, logger)
	return app.Execute(ctx, flagx.StripArgs(os.Args[1:], config.Flags))
}
