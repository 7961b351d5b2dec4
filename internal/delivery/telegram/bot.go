package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/domain/repository"
	"github.com/mitech808/phone-price-bot/internal/usecase"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// botAPI *tgbotapi.BotAPI ning handler ishlatadigan qismi (testlarda soxtasi beriladi)
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// catalogControl /reload va /stats uchun katalog boshqaruvi
type catalogControl interface {
	usecase.SnapshotProvider
	Reload(ctx context.Context) (*entity.Catalog, error)
}

// Options bot sozlamalari (config dan)
type Options struct {
	ChannelUsername     string
	InstagramURL        string
	RequireSubscription bool
	AdminIDs            []int64
	WorkerCount         int
}

// Deps bot ishlatadigan usecase va repositorylar
type Deps struct {
	Queries     usecase.QueryUseCase
	Comparisons *usecase.ComparisonUseCase
	Catalog     catalogControl
	Stats       repository.StatsRepository
	Log         *logger.Logger
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot  botAPI
	opts Options

	queries     usecase.QueryUseCase
	comparisons *usecase.ComparisonUseCase
	catalog     catalogControl
	stats       repository.StatsRepository
	log         *logger.Logger

	admins map[int64]struct{}

	// faqat a'zo ekanligi tasdiqlangan userlar keshlanadi
	memberCache *expirable.LRU[int64, bool]

	workerPool *workerPool
	startedAt  time.Time
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(token string, opts Options, deps Deps) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h := newBotHandler(bot, opts, deps)
	h.log.Info("telegram bot authorized", "username", bot.Self.UserName)
	return h, nil
}

func newBotHandler(bot botAPI, opts Options, deps Deps) *BotHandler {
	if opts.ChannelUsername == "" {
		opts.ChannelUsername = constants.DefaultChannelUsername
	}
	if opts.InstagramURL == "" {
		opts.InstagramURL = constants.DefaultInstagramURL
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	h := &BotHandler{
		bot:         bot,
		opts:        opts,
		queries:     deps.Queries,
		comparisons: deps.Comparisons,
		catalog:     deps.Catalog,
		stats:       deps.Stats,
		log:         log,
		admins:      make(map[int64]struct{}, len(opts.AdminIDs)),
		memberCache: expirable.NewLRU[int64, bool](maxMemberCacheSize, nil, memberCacheTTL),
		startedAt:   time.Now(),
	}
	for _, id := range opts.AdminIDs {
		h.admins[id] = struct{}{}
	}
	h.workerPool = newWorkerPool(h, opts.WorkerCount)
	return h
}

func (h *BotHandler) isAdmin(userID int64) bool {
	_, ok := h.admins[userID]
	return ok
}
