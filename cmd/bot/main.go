package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/bot"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/config"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/db"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/logger"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/repo"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/server"
	"github.com/shgereadis-cpu/p2p-group-market-bot/internal/session"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := db.MustConnect(ctx, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		log.Fatalw("migrations", "err", err)
	}

	// The client timeout also bounds each broadcast delivery, so one
	// unresponsive recipient cannot stall the fan-out.
	botAPI, err := tgbotapi.NewBotAPIWithClient(
		cfg.BotToken,
		tgbotapi.APIEndpoint,
		&http.Client{Timeout: cfg.BroadcastSendTimeout},
	)
	if err != nil {
		log.Fatalw("bot init", "err", err)
	}
	botAPI.Debug = false

	rUsers := repo.NewUsers(pool)
	rListings := repo.NewListings(pool)
	sessions := session.NewStore()

	h := bot.NewHandler(botAPI, cfg, log, rUsers, rListings, sessions)

	// Graceful shutdown
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	go server.Run(ctx, server.New(cfg.Port), log)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botAPI.GetUpdatesChan(u)

	log.Infow("group market bot started", "username", botAPI.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			log.Infow("shutdown")
			return
		case upd := <-updates:
			go h.HandleUpdate(ctx, upd)
		}
	}
}
