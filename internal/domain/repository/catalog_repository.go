package repository

import (
	"context"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// PriceSource narx jadvalini o'qish (xlsx/csv)
type PriceSource interface {
	// LoadPrices yaroqli qatorlarni qaytaradi; nomi/narxi/xotirasi yo'q qatorlar tashlanadi.
	// Majburiy ustunlar bo'lmasa *entity.SourceFormatError qaytaradi.
	LoadPrices(ctx context.Context) ([]entity.PriceRow, error)
}

// LinkSource qurilma -> batafsil URL jadvalini o'qish
type LinkSource interface {
	LoadLinks(ctx context.Context) (entity.LinkTable, error)
}
