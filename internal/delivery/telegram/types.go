package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// inline tugmalar callback_data qiymatlari
const (
	callbackCheckSubscription = "check_subscription"
	callbackCancelCompare     = "cancel_compare"
)

const (
	memberCacheTTL     = 10 * time.Minute
	maxMemberCacheSize = 50000
	telegramTextLimit  = 4096
)

// updateRequest worker pool orqali qayta ishlanadigan bitta update
type updateRequest struct {
	ctx       context.Context
	requestID string
	userID    int64
	username  string
	chatID    int64
	message   *tgbotapi.Message
	callback  *tgbotapi.CallbackQuery
}
