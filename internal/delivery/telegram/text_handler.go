package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/usecase"
)

// handleTextMessage: a'zolik -> faol taqqoslash -> oddiy so'rov
func (h *BotHandler) handleTextMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if !h.isSubscribed(ctx, userID, true) {
		h.sendSubscriptionRequired(chatID)
		return
	}

	if outcome, handled := h.comparisons.Submit(userID, msg.Text); handled {
		h.replyComparison(ctx, userID, chatID, outcome)
		return
	}

	res, err := h.queries.Resolve(msg.Text)
	if err != nil {
		if errors.Is(err, entity.ErrCatalogNotLoaded) {
			h.sendMessage(chatID, msgCatalogUnavailable)
			return
		}
		h.log.Error("resolve failed", "user_id", userID, "error", err)
		h.sendMessage(chatID, msgInternalError)
		return
	}
	h.log.Debug("query resolved", "user_id", userID, "query", truncateForLog(res.Query, 64), "kind", res.Kind.String())
	h.recordQuery(ctx, userID, res.Kind.String())
	h.replyQuery(chatID, res)
}

func (h *BotHandler) replyQuery(chatID int64, res entity.QueryResult) {
	switch res.Kind {
	case entity.ResultExact:
		for _, m := range res.Matches {
			h.sendMessageWithMarkup(chatID, formatMatch(m), specsKeyboard(m.Link))
		}
	case entity.ResultSuggestions:
		h.sendMessage(chatID, formatSuggestions(res.Query, res.Suggestions))
	case entity.ResultPrice:
		h.sendMessage(chatID, formatPriceResult(res))
	default:
		h.sendMessage(chatID, msgNoMatch)
	}
}

func (h *BotHandler) replyComparison(ctx context.Context, userID, chatID int64, out usecase.ComparisonOutcome) {
	switch out.Kind {
	case usecase.OutcomeAwaitingSecond:
		h.sendMessageWithMarkup(chatID, formatAwaitingSecond(out.FirstName), cancelKeyboard())
	case usecase.OutcomeComplete:
		h.recordQuery(ctx, userID, "compare")
		h.sendMessageWithMarkup(chatID, formatComparison(out.Payload), comparisonKeyboard(out.Payload))
	case usecase.OutcomeAmbiguous:
		h.recordQuery(ctx, userID, "compare_ambiguous")
		h.log.Debug("comparison ambiguous", "user_id", userID, "unresolved", len(out.Unresolved), "error", out.Err())
		h.sendMessage(chatID, formatAmbiguous(out.Unresolved))
	}
}
