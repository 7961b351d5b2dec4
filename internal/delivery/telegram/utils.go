package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// newRequestID log korrelyatsiyasi uchun
func newRequestID() string {
	return uuid.New().String()
}

func nonEmpty(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	return nonEmpty(u.UserName, u.FirstName)
}

func truncateForLog(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
