package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mitech808/phone-price-bot/internal/delivery/telegram"
	"github.com/mitech808/phone-price-bot/internal/infrastructure/catalog"
	"github.com/mitech808/phone-price-bot/internal/infrastructure/storage"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Telegram botni ishga tushirish",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireSecrets(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("logger yaratilmadi: %w", err)
	}
	defer log.Sync()
	log.Info("🚀 Ilova ishga tushmoqda...", "timezone", cfg.Timezone)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if cfg.AllowEmptySecrets && isEmptyOrDisabled(cfg.TelegramToken) {
		log.Warn("Secretlar yetishmayapti (TELEGRAM_BOT_TOKEN). Bot vaqtincha ishga tushmaydi.")
		<-sigChan
		return nil
	}

	// Context yaratish
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Katalog va usecaselar
	eng, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.Info("✅ Katalog tayyor", "version", eng.store.Snapshot().Version, "devices", eng.store.Snapshot().Len())

	// 2. Fayl kuzatuvchisi
	if cfg.WatchCatalog {
		watcher, err := catalog.NewWatcher(eng.store, catalog.DefaultDebounce, log, cfg.PricesPath, cfg.LinksPath)
		if err != nil {
			log.Warn("katalog kuzatuvchisi ishga tushmadi", "error", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
			log.Info("✅ Katalog fayllari kuzatilmoqda", "prices", cfg.PricesPath, "links", cfg.LinksPath)
		}
	}

	// 3. Statistika
	stats := storage.NewStatsRepository(ctx, storage.StatsOptions{
		PostgresDSN:     cfg.PostgresDSN,
		ConnectAttempts: cfg.PostgresConnectAttempts,
		ConnectDelay:    cfg.PostgresConnectDelay,
		SQLitePath:      cfg.StatsDBPath,
	}, log)
	defer stats.Close()

	// 4. Telegram bot handler
	botHandler, err := telegram.NewBotHandler(cfg.TelegramToken, telegram.Options{
		ChannelUsername:     cfg.ChannelUsername,
		InstagramURL:        cfg.InstagramURL,
		RequireSubscription: cfg.RequireSubscription,
		AdminIDs:            cfg.AdminIDs,
		WorkerCount:         cfg.WorkerCount,
	}, telegram.Deps{
		Queries:     eng.queries,
		Comparisons: eng.comparisons,
		Catalog:     eng.store,
		Stats:       stats,
		Log:         log,
	})
	if err != nil {
		return fmt.Errorf("bot handler yaratilmadi: %w", err)
	}

	// Botni alohida goroutine da ishga tushirish
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := botHandler.Start(ctx); err != nil && err != context.Canceled {
			log.Error("❌ Bot xatosi", "error", err)
		}
	}()

	log.Info("🤖 Bot ishlayapti. To'xtatish uchun Ctrl+C ni bosing.")

	// Signal kutish
	select {
	case <-sigChan:
		log.Info("⏳ To'xtatish signali qabul qilindi...")
	case <-done:
	}

	// Graceful shutdown
	cancel()
	<-done
	log.Info("✅ Bot to'xtatildi.")
	return nil
}
