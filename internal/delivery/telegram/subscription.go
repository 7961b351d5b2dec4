package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// kanal a'zoligi deb hisoblanadigan statuslar
var memberStatuses = map[string]struct{}{
	"member":        {},
	"creator":       {},
	"administrator": {},
}

// isSubscribed userning kanal a'zoligini tekshiradi.
// Tekshiruv xatosi a'zo emas deb hisoblanadi.
func (h *BotHandler) isSubscribed(ctx context.Context, userID int64, useCache bool) bool {
	if !h.opts.RequireSubscription || h.isAdmin(userID) {
		return true
	}
	if useCache {
		if ok, found := h.memberCache.Get(userID); found && ok {
			return true
		}
	}
	if ctx.Err() != nil {
		return false
	}

	member, err := h.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: h.opts.ChannelUsername,
			UserID:             userID,
		},
	})
	if err != nil {
		h.log.Warn("subscription check failed", "user_id", userID, "error", err)
		return false
	}
	_, ok := memberStatuses[strings.ToLower(member.Status)]
	if ok {
		h.memberCache.Add(userID, true)
	} else {
		h.memberCache.Remove(userID)
	}
	return ok
}

func (h *BotHandler) subscriptionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btnJoinChannel, channelURL(h.opts.ChannelUsername))),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(btnFollowInstagram, h.opts.InstagramURL)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btnCheckSubscription, callbackCheckSubscription)),
	)
}

func (h *BotHandler) sendSubscriptionRequired(chatID int64) {
	h.sendMessageWithMarkup(chatID, subscriptionRequiredText(h.opts.ChannelUsername, h.opts.InstagramURL), h.subscriptionKeyboard())
}

// handleCheckSubscription "🔄 تحقق من الاشتراك" tugmasi; keshsiz qayta tekshiradi
func (h *BotHandler) handleCheckSubscription(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if !h.isSubscribed(ctx, cq.From.ID, false) {
		h.answerCallback(cq.ID, msgNotSubscribedYet, true)
		return
	}
	h.answerCallback(cq.ID, "", false)
	if cq.Message != nil && cq.Message.Chat != nil {
		h.editMessageText(cq.Message.Chat.ID, cq.Message.MessageID, msgSubscriptionVerified+"\n\n"+msgWelcome)
	}
}

// channelURL "@mitech808" -> "https://t.me/mitech808"
func channelURL(username string) string {
	return "https://t.me/" + strings.TrimPrefix(strings.TrimSpace(username), "@")
}
