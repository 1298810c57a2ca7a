package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singhadityakumar1711/turbo-graph-trade/auth"
	"github.com/singhadityakumar1711/turbo-graph-trade/postgres"
)

func main() {
	cfg, err := loadConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	store := postgres.New(pool)
	if err := store.CreateSchema(context.Background()); err != nil {
		log.Fatalf("schema: %v", err)
	}

	manager, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	app := newAPI(store, manager, logger).router()

	log.Fatal(app.Listen(cfg.ListenAddr))
}
