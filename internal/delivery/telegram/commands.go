package telegram

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
)

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	cmd := extractCommand(message)

	switch cmd {
	case "start":
		h.recordVisit(ctx, message.From)
		if !h.isSubscribed(ctx, userID, true) {
			h.sendSubscriptionRequired(chatID)
			return
		}
		h.sendMessage(chatID, msgWelcome)
	case "help":
		h.sendMessage(chatID, msgHelp)
	case "compare":
		if !h.isSubscribed(ctx, userID, true) {
			h.sendSubscriptionRequired(chatID)
			return
		}
		h.comparisons.Start(userID)
		h.sendMessageWithMarkup(chatID, msgCompareStart, cancelKeyboard())
	case "cancel":
		h.cancelComparison(userID, chatID)
	case "stats":
		h.handleStatsCommand(ctx, message)
	case "reload":
		h.handleReloadCommand(ctx, message)
	default:
		h.sendMessage(chatID, msgUnknownCommand)
	}
}

// extractCommand "/start@bot arg" -> "start"
func extractCommand(msg *tgbotapi.Message) string {
	if msg == nil {
		return ""
	}
	if msg.IsCommand() {
		return strings.ToLower(msg.Command())
	}
	txt := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(txt, "/") {
		return ""
	}
	first := strings.Fields(txt)[0]
	first = strings.TrimPrefix(first, "/")
	if first == "" {
		return ""
	}
	parts := strings.SplitN(first, "@", 2)
	return strings.ToLower(parts[0])
}

func (h *BotHandler) cancelComparison(userID, chatID int64) {
	if h.comparisons.Cancel(userID) {
		h.sendMessage(chatID, msgCompareCancelled)
		return
	}
	h.sendMessage(chatID, msgNoActiveCompare)
}

// handleStatsCommand faqat adminlar uchun
func (h *BotHandler) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		h.sendMessage(message.Chat.ID, msgAdminOnly)
		return
	}
	var sum entity.StatsSummary
	if h.stats != nil {
		s, err := h.stats.Summary(ctx)
		if err != nil {
			h.log.Error("stats summary failed", "error", err)
		} else {
			sum = s
		}
	}
	var catalog *entity.Catalog
	if h.catalog != nil {
		catalog = h.catalog.Snapshot()
	}
	h.sendMessage(message.Chat.ID, formatStats(sum, catalog, h.comparisons.ActiveSessions()))
}

// handleReloadCommand katalogni diskdan qayta o'qish; xatoda eski snapshot qoladi
func (h *BotHandler) handleReloadCommand(ctx context.Context, message *tgbotapi.Message) {
	if !h.isAdmin(message.From.ID) {
		h.sendMessage(message.Chat.ID, msgAdminOnly)
		return
	}
	if h.catalog == nil {
		h.sendMessage(message.Chat.ID, msgCatalogUnavailable)
		return
	}
	started := time.Now()
	catalog, err := h.catalog.Reload(ctx)
	if err != nil {
		h.log.Error("manual catalog reload failed", "user_id", message.From.ID, "error", err)
		h.sendMessage(message.Chat.ID, "❌ فشل التحديث: "+err.Error())
		return
	}
	h.log.Info("manual catalog reload", "user_id", message.From.ID, "version", catalog.Version, "took", time.Since(started))
	h.sendMessage(message.Chat.ID, formatReloaded(catalog))
}

func (h *BotHandler) recordVisit(ctx context.Context, from *tgbotapi.User) {
	if h.stats == nil || from == nil {
		return
	}
	if err := h.stats.RecordVisit(ctx, entity.Visit{UserID: from.ID, Username: displayName(from), At: time.Now()}); err != nil {
		h.log.Warn("record visit failed", "user_id", from.ID, "error", err)
	}
}

func (h *BotHandler) recordQuery(ctx context.Context, userID int64, kind string) {
	if h.stats == nil {
		return
	}
	event := entity.QueryEvent{ID: newRequestID(), UserID: userID, Kind: kind, At: time.Now()}
	if err := h.stats.RecordQuery(ctx, event); err != nil {
		h.log.Warn("record query failed", "user_id", userID, "error", err)
	}
}
