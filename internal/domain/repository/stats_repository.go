package repository

import (
	"context"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// StatsRepository foydalanish statistikasini saqlash
type StatsRepository interface {
	RecordVisit(ctx context.Context, visit entity.Visit) error
	RecordQuery(ctx context.Context, event entity.QueryEvent) error
	Summary(ctx context.Context) (entity.StatsSummary, error)
	Close() error
}
