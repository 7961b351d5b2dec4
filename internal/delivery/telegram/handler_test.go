package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/infrastructure/storage"
	"github.com/mitech808/phone-price-bot/internal/usecase"
)

type sentMessage struct {
	chatID int64
	text   string
	markup interface{}
}

// fakeBot botAPI ning xotiradagi soxtasi
type fakeBot struct {
	mu          sync.Mutex
	sent        []sentMessage
	callbacks   []tgbotapi.CallbackConfig
	status      string
	memberErr   error
	memberCalls int
	updates     chan tgbotapi.Update
}

func newFakeBot(status string) *fakeBot {
	return &fakeBot{status: status, updates: make(chan tgbotapi.Update, 16)}
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.sent = append(f.sent, sentMessage{chatID: m.ChatID, text: m.Text, markup: m.ReplyMarkup})
	case tgbotapi.EditMessageTextConfig:
		f.sent = append(f.sent, sentMessage{chatID: m.ChatID, text: m.Text})
	}
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetChatMember(tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.memberCalls++
	if f.memberErr != nil {
		return tgbotapi.ChatMember{}, f.memberErr
	}
	return tgbotapi.ChatMember{Status: f.status}, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBot) StopReceivingUpdates() {}

func (f *fakeBot) setStatus(status string) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

func (f *fakeBot) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func (f *fakeBot) last() sentMessage {
	msgs := f.messages()
	if len(msgs) == 0 {
		return sentMessage{}
	}
	return msgs[len(msgs)-1]
}

func testCatalog() *entity.Catalog {
	rows := []entity.PriceRow{
		{Name: "Galaxy S23", Capacity: "128GB", Price: "900000"},
		{Name: "Galaxy S23 Ultra", Capacity: "256GB", Price: "1200000"},
		{Name: "Galaxy S23 Ultra", Capacity: "512GB", Price: "1,450,000"},
		{Name: "iPhone 15 Pro Max", Capacity: "256GB", Price: "1250000"},
		{Name: "Redmi Note 13 Pro", Capacity: "256GB", Price: "420000"},
	}
	links := entity.LinkTable{
		"Galaxy S23 Ultra":  "https://example.com/s23-ultra",
		"iPhone 15 Pro Max": "https://example.com/iphone-15-pro-max",
	}
	return entity.NewCatalog(rows, links, 1)
}

const testAdminID = int64(999)

func newTestHandler(t *testing.T, bot *fakeBot, requireSubscription bool) *BotHandler {
	t.Helper()
	store := usecase.NewCatalogStore(nil, nil, nil)
	store.Swap(testCatalog())
	links := usecase.NewLinkResolver("https://t.me/mitech808")
	return newBotHandler(bot, Options{
		ChannelUsername:     "@mitech808",
		RequireSubscription: requireSubscription,
		AdminIDs:            []int64{testAdminID},
		WorkerCount:         4,
	}, Deps{
		Queries:     usecase.NewQueryUseCase(store, links, 64, nil),
		Comparisons: usecase.NewComparisonUseCase(store, links, 100, 0, nil),
		Catalog:     store,
		Stats:       storage.NewMemoryStatsRepository(),
	})
}

func textMessage(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, UserName: "user"},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}
}

func urlButtons(markup interface{}) []string {
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		return nil
	}
	var urls []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.URL != nil {
				urls = append(urls, *b.URL)
			}
		}
	}
	return urls
}

func TestStart_RequiresSubscription(t *testing.T) {
	bot := newFakeBot("left")
	h := newTestHandler(t, bot, true)

	h.handleMessage(context.Background(), textMessage(1, "/start"))

	msg := bot.last()
	assert.Contains(t, msg.text, "@mitech808")
	assert.Equal(t, []string{"https://t.me/mitech808", "https://www.instagram.com/mitech808"}, urlButtons(msg.markup))

	kb := msg.markup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, kb.InlineKeyboard, 3)
	require.NotNil(t, kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, callbackCheckSubscription, *kb.InlineKeyboard[2][0].CallbackData)
}

func TestStart_MemberGetsWelcome(t *testing.T) {
	for _, status := range []string{"member", "creator", "administrator"} {
		bot := newFakeBot(status)
		h := newTestHandler(t, bot, true)
		h.handleMessage(context.Background(), textMessage(1, "/start"))
		assert.Equal(t, msgWelcome, bot.last().text, "status=%s", status)
	}
}

func TestSubscription_CheckFailureDenies(t *testing.T) {
	bot := newFakeBot("member")
	bot.memberErr = errors.New("chat not found")
	h := newTestHandler(t, bot, true)

	h.handleMessage(context.Background(), textMessage(1, "Galaxy S23"))
	assert.Contains(t, bot.last().text, "🔒")
}

func TestSubscription_MemberIsCached(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)

	h.handleMessage(context.Background(), textMessage(1, "Galaxy S23"))
	h.handleMessage(context.Background(), textMessage(1, "Galaxy S23"))
	assert.Equal(t, 1, bot.memberCalls)
}

func TestSubscription_CheckButton(t *testing.T) {
	bot := newFakeBot("left")
	h := newTestHandler(t, bot, true)
	cq := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 5},
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: 5, Type: "private"}},
		Data:    callbackCheckSubscription,
	}

	h.handleCallback(context.Background(), cq)
	require.Len(t, bot.callbacks, 1)
	assert.True(t, bot.callbacks[0].ShowAlert)
	assert.Empty(t, bot.messages())

	bot.setStatus("member")
	h.handleCallback(context.Background(), cq)
	assert.True(t, strings.HasPrefix(bot.last().text, msgSubscriptionVerified))
}

func TestTextQuery_Exact(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)

	h.handleMessage(context.Background(), textMessage(1, "glaxy s23 ultra"))

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "📱 Galaxy S23 Ultra (تشابه: 97%)\n💾 256GB — 💰 1200000\n💾 512GB — 💰 1,450,000\n", msgs[0].text)
	assert.Equal(t, []string{"https://example.com/s23-ultra"}, urlButtons(msgs[0].markup))
}

func TestTextQuery_NoMatchAndPrice(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, false)

	h.handleMessage(context.Background(), textMessage(1, "samsung"))
	assert.Equal(t, msgNoMatch, bot.last().text)

	h.handleMessage(context.Background(), textMessage(1, "1300000"))
	text := bot.last().text
	assert.Contains(t, text, "1170000")
	assert.Contains(t, text, "1430000")
	assert.Contains(t, text, "iPhone 15 Pro Max")
	assert.NotContains(t, text, "1,450,000")

	h.handleMessage(context.Background(), textMessage(1, "5"))
	assert.Equal(t, msgNoPriceMatch, bot.last().text)
	assert.Zero(t, bot.memberCalls, "gate disabled")
}

func TestCompare_Flow(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)
	ctx := context.Background()

	h.handleMessage(ctx, textMessage(1, "/compare"))
	assert.Equal(t, msgCompareStart, bot.last().text)

	h.handleMessage(ctx, textMessage(1, "Galaxy S23 Ultra"))
	assert.Contains(t, bot.last().text, "Galaxy S23 Ultra")

	h.handleMessage(ctx, textMessage(1, "iphone 15 pro mx"))
	last := bot.last()
	assert.Contains(t, last.text, "🆚")
	assert.Contains(t, last.text, "iPhone 15 Pro Max")
	assert.Equal(t, []string{"https://example.com/s23-ultra", "https://example.com/iphone-15-pro-max"}, urlButtons(last.markup))

	// uchinchi matn oddiy so'rov
	h.handleMessage(ctx, textMessage(1, "Redmi Note 13 Pro"))
	assert.True(t, strings.HasPrefix(bot.last().text, "📱 Redmi Note 13 Pro (تشابه: 100%)"))
}

func TestCompare_Ambiguous(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)
	ctx := context.Background()

	h.handleMessage(ctx, textMessage(1, "/compare"))
	h.handleMessage(ctx, textMessage(1, "S23"))
	h.handleMessage(ctx, textMessage(1, "Redmi Note 13 Pro"))
	assert.Contains(t, bot.last().text, "\"S23\"")
	assert.False(t, h.comparisons.Active(1))
}

func TestCompare_CancelButtonAndCommand(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)
	ctx := context.Background()

	h.handleMessage(ctx, textMessage(1, "/cancel"))
	assert.Equal(t, msgNoActiveCompare, bot.last().text)

	h.handleMessage(ctx, textMessage(1, "/compare"))
	h.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: 1, Type: "private"}},
		Data:    callbackCancelCompare,
	})
	assert.Equal(t, msgCompareCancelled, bot.last().text)
	assert.False(t, h.comparisons.Active(1))
}

func TestAdminCommands(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)
	ctx := context.Background()

	h.handleMessage(ctx, textMessage(1, "/start"))
	h.handleMessage(ctx, textMessage(1, "Galaxy S23"))
	h.handleMessage(ctx, textMessage(1, "/stats"))
	assert.Equal(t, msgAdminOnly, bot.last().text)

	h.handleMessage(ctx, textMessage(testAdminID, "/stats"))
	text := bot.last().text
	assert.Contains(t, text, "المستخدمون: 1")
	assert.Contains(t, text, "exact: 1")
	assert.Contains(t, text, "الكتالوج: 4")

	h.handleMessage(ctx, textMessage(1, "/reload"))
	assert.Equal(t, msgAdminOnly, bot.last().text)

	// manbalarsiz store: reload xatosi, snapshot o'zgarmaydi
	before := h.catalog.Snapshot()
	h.handleMessage(ctx, textMessage(testAdminID, "/reload"))
	assert.Contains(t, bot.last().text, "❌")
	assert.Same(t, before, h.catalog.Snapshot())
}

func TestUnknownCommand(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, true)
	h.handleMessage(context.Background(), textMessage(1, "/orders"))
	assert.Equal(t, msgUnknownCommand, bot.last().text)
}

func TestCatalogNotLoaded(t *testing.T) {
	bot := newFakeBot("member")
	store := usecase.NewCatalogStore(nil, nil, nil)
	h := newBotHandler(bot, Options{}, Deps{
		Queries:     usecase.NewQueryUseCase(store, nil, 0, nil),
		Comparisons: usecase.NewComparisonUseCase(store, nil, 0, 0, nil),
		Catalog:     store,
	})
	h.handleMessage(context.Background(), textMessage(1, "Galaxy"))
	assert.Equal(t, msgCatalogUnavailable, bot.last().text)
}

func TestDispatch_IgnoresGroupsAndAnonymous(t *testing.T) {
	bot := newFakeBot("member")
	h := newTestHandler(t, bot, false)
	ctx := context.Background()

	group := textMessage(1, "Galaxy S23")
	group.Chat.Type = "supergroup"
	assert.False(t, h.dispatch(ctx, tgbotapi.Update{Message: group}))
	assert.False(t, h.dispatch(ctx, tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1, Type: "private"}}}))
	assert.False(t, h.dispatch(ctx, tgbotapi.Update{}))
	assert.True(t, h.dispatch(ctx, tgbotapi.Update{Message: textMessage(1, "Galaxy S23")}))
}

func TestExtractCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/Compare@mitech_bot now", "compare"},
		{"  /cancel  ", "cancel"},
		{"hello", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCommand(&tgbotapi.Message{Text: tt.text}), "text=%q", tt.text)
	}
}

func TestSplitIntoChunks(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitIntoChunks("short", 10))
	assert.Equal(t, []string{"aaaa\n", "bbbb\n", "cc"}, splitIntoChunks("aaaa\nbbbb\ncc", 6))
	assert.Equal(t, []string{"abc", "def", "g"}, splitIntoChunks("abcdefg", 3))

	long := strings.Repeat("📱 Galaxy S23 Ultra\n", 400)
	chunks := splitIntoChunks(long, telegramTextLimit)
	assert.Greater(t, len(chunks), 1)
	assert.Equal(t, long, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), telegramTextLimit)
	}
}

func TestChannelURL(t *testing.T) {
	assert.Equal(t, "https://t.me/mitech808", channelURL("@mitech808"))
	assert.Equal(t, "https://t.me/shop", channelURL(" shop "))
}
