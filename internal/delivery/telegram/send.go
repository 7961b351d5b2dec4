package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sendText bitta xabar yuborish (parseMode/replyMarkup ixtiyoriy)
func (h *BotHandler) sendText(chatID int64, text string, replyMarkup interface{}) (*tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	sent, err := h.bot.Send(msg)
	if err != nil {
		return nil, err
	}
	return &sent, nil
}

// sendMessage oddiy xabar yuborish; uzun matn bo'laklarga bo'linadi
func (h *BotHandler) sendMessage(chatID int64, text string) {
	h.sendMessageWithMarkup(chatID, text, nil)
}

// sendMessageWithMarkup tugmalar oxirgi bo'lakka qo'shiladi
func (h *BotHandler) sendMessageWithMarkup(chatID int64, text string, markup interface{}) {
	if strings.TrimSpace(text) == "" {
		h.log.Warn("empty message skipped", "chat_id", chatID)
		return
	}
	chunks := splitIntoChunks(text, telegramTextLimit)
	for i, chunk := range chunks {
		var m interface{}
		if i == len(chunks)-1 {
			m = markup
		}
		if _, err := h.sendText(chatID, chunk, m); err != nil {
			h.log.Error("send message failed", "chat_id", chatID, "error", err, "text", truncateForLog(chunk, 120))
			return
		}
	}
}

func (h *BotHandler) answerCallback(callbackID, text string, alert bool) {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	if _, err := h.bot.Request(cb); err != nil {
		h.log.Warn("answer callback failed", "error", err)
	}
}

func (h *BotHandler) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.bot.Send(edit); err != nil {
		h.log.Warn("edit message failed", "chat_id", chatID, "error", err)
	}
}

// splitIntoChunks matnni Telegram limitiga mos bo'laklarga bo'ladi (qator chegarasida, iloji bo'lsa)
func splitIntoChunks(s string, limit int) []string {
	if limit <= 0 || len([]rune(s)) <= limit {
		return []string{s}
	}
	var chunks []string
	var current []rune
	for _, line := range strings.SplitAfter(s, "\n") {
		lr := []rune(line)
		if len(current)+len(lr) > limit && len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
		for len(lr) > limit {
			chunks = append(chunks, string(lr[:limit]))
			lr = lr[limit:]
		}
		current = append(current, lr...)
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks
}
