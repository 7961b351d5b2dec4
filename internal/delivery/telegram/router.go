package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Start botni ishga tushirish; ctx tugaguncha bloklaydi
func (h *BotHandler) Start(ctx context.Context) error {
	h.workerPool.start(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			h.workerPool.shutdown()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.workerPool.shutdown()
				return nil
			}
			h.dispatch(ctx, update)
		}
	}
}

// dispatch updateni user navbatiga qo'yadi
func (h *BotHandler) dispatch(ctx context.Context, update tgbotapi.Update) bool {
	req := &updateRequest{ctx: ctx, requestID: newRequestID()}
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.From == nil {
			return false
		}
		req.callback = cq
		req.userID = cq.From.ID
		req.username = displayName(cq.From)
		if cq.Message != nil && cq.Message.Chat != nil {
			req.chatID = cq.Message.Chat.ID
		}
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			return false
		}
		req.message = msg
		req.userID = msg.From.ID
		req.username = displayName(msg.From)
		req.chatID = msg.Chat.ID
	default:
		return false
	}
	return h.workerPool.submit(req)
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	if message.IsCommand() || strings.HasPrefix(strings.TrimSpace(message.Text), "/") {
		h.handleCommand(ctx, message)
		return
	}
	if strings.TrimSpace(message.Text) == "" {
		return
	}
	h.handleTextMessage(ctx, message)
}

// handleCallback inline tugmalar
func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq == nil || cq.From == nil {
		return
	}
	switch cq.Data {
	case callbackCheckSubscription:
		h.handleCheckSubscription(ctx, cq)
	case callbackCancelCompare:
		h.answerCallback(cq.ID, "", false)
		if cq.Message != nil && cq.Message.Chat != nil {
			h.cancelComparison(cq.From.ID, cq.Message.Chat.ID)
		}
	default:
		h.answerCallback(cq.ID, "", false)
	}
}
