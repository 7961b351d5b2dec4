package storage

import (
	"context"
	"strings"
	"time"

	"github.com/mitech808/phone-price-bot/internal/domain/repository"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// StatsOptions qaysi backend ishlatilishini belgilaydi
type StatsOptions struct {
	PostgresDSN     string
	ConnectAttempts int
	ConnectDelay    time.Duration
	SQLitePath      string
}

// NewStatsRepository postgres -> sqlite -> memory tartibida tanlaydi.
// Ulanib bo'lmasa keyingisiga o'tiladi, bot statistikasiz to'xtamaydi.
func NewStatsRepository(ctx context.Context, opts StatsOptions, log *logger.Logger) repository.StatsRepository {
	if log == nil {
		log = logger.Nop()
	}
	if dsn := strings.TrimSpace(opts.PostgresDSN); dsn != "" {
		repo, err := NewPostgresStatsRepository(ctx, dsn, opts.ConnectAttempts, opts.ConnectDelay)
		if err == nil {
			log.Info("stats store ready", "backend", "postgres")
			return repo
		}
		log.Warn("postgres stats unavailable, falling back", "error", err)
	}
	if path := strings.TrimSpace(opts.SQLitePath); path != "" {
		repo, err := NewSQLiteStatsRepository(ctx, path)
		if err == nil {
			log.Info("stats store ready", "backend", "sqlite", "path", path)
			return repo
		}
		log.Warn("sqlite stats unavailable, falling back", "error", err)
	}
	log.Info("stats store ready", "backend", "memory")
	return NewMemoryStatsRepository()
}
