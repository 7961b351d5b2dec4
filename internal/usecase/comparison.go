package usecase

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mitech808/phone-price-bot/internal/domain/constants"
	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/pkg/logger"
)

// ComparisonState taqqoslash dialogining holati
type ComparisonState int

const (
	ComparisonIdle ComparisonState = iota
	ComparisonAwaitingFirst
	ComparisonAwaitingSecond
)

func (s ComparisonState) String() string {
	switch s {
	case ComparisonAwaitingFirst:
		return "awaiting_first"
	case ComparisonAwaitingSecond:
		return "awaiting_second"
	default:
		return "idle"
	}
}

// OutcomeKind Submit natijasi turi
type OutcomeKind int

const (
	OutcomeAwaitingSecond OutcomeKind = iota
	OutcomeComplete
	OutcomeAmbiguous
)

// ComparisonOutcome Submit natijasi.
// OutcomeComplete da Payload, OutcomeAmbiguous da Unresolved to'ldiriladi.
type ComparisonOutcome struct {
	Kind       OutcomeKind
	FirstName  string
	Payload    *entity.ComparisonPayload
	Unresolved []string
}

// Err returns entity.ErrAmbiguousComparison for an ambiguous outcome.
func (o ComparisonOutcome) Err() error {
	if o.Kind == OutcomeAmbiguous {
		return entity.ErrAmbiguousComparison
	}
	return nil
}

type comparisonSession struct {
	FirstName string
	HasFirst  bool
	StartedAt time.Time
}

// ComparisonUseCase ikki bosqichli taqqoslash dialogi.
// Har bir sessiya kaliti uchun chaqiruvlar ketma-ket bo'lishi kerak (transport kafolatlaydi).
type ComparisonUseCase struct {
	catalogs SnapshotProvider
	matcher  FuzzyMatcher
	links    *LinkResolver
	sessions *expirable.LRU[int64, comparisonSession]
	log      *logger.Logger
}

// NewComparisonUseCase maxSessions ta sessiya, har biri ttl gacha yashaydi
func NewComparisonUseCase(catalogs SnapshotProvider, links *LinkResolver, maxSessions int, ttl time.Duration, log *logger.Logger) *ComparisonUseCase {
	if maxSessions <= 0 {
		maxSessions = constants.DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	if links == nil {
		links = NewLinkResolver("")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ComparisonUseCase{
		catalogs: catalogs,
		links:    links,
		sessions: expirable.NewLRU[int64, comparisonSession](maxSessions, nil, ttl),
		log:      log,
	}
}

// Start enters AWAITING_FIRST, overwriting any session of the same key.
func (u *ComparisonUseCase) Start(sessionID int64) {
	u.sessions.Add(sessionID, comparisonSession{StartedAt: time.Now()})
}

// Cancel discards the session. Reports whether one existed.
func (u *ComparisonUseCase) Cancel(sessionID int64) bool {
	return u.sessions.Remove(sessionID)
}

// State joriy holat
func (u *ComparisonUseCase) State(sessionID int64) ComparisonState {
	s, ok := u.sessions.Peek(sessionID)
	switch {
	case !ok:
		return ComparisonIdle
	case s.HasFirst:
		return ComparisonAwaitingSecond
	default:
		return ComparisonAwaitingFirst
	}
}

// Active sessiya bormi
func (u *ComparisonUseCase) Active(sessionID int64) bool {
	return u.State(sessionID) != ComparisonIdle
}

// ActiveSessions tirik sessiyalar soni
func (u *ComparisonUseCase) ActiveSessions() int {
	return u.sessions.Len()
}

// Submit feeds one text into the dialogue. handled is false when the key has
// no session, so the caller can treat the text as a regular query.
func (u *ComparisonUseCase) Submit(sessionID int64, text string) (ComparisonOutcome, bool) {
	session, ok := u.sessions.Get(sessionID)
	if !ok {
		return ComparisonOutcome{}, false
	}
	text = strings.TrimSpace(text)

	if !session.HasFirst {
		session.FirstName = text
		session.HasFirst = true
		u.sessions.Add(sessionID, session)
		return ComparisonOutcome{Kind: OutcomeAwaitingSecond, FirstName: text}, true
	}

	u.sessions.Remove(sessionID)
	return u.compare(session.FirstName, text), true
}

func (u *ComparisonUseCase) compare(firstInput, secondInput string) ComparisonOutcome {
	out := ComparisonOutcome{FirstName: firstInput}
	catalog := u.catalogs.Snapshot()

	first, okFirst := u.resolveDevice(catalog, firstInput)
	second, okSecond := u.resolveDevice(catalog, secondInput)
	if !okFirst {
		out.Unresolved = append(out.Unresolved, firstInput)
	}
	if !okSecond {
		out.Unresolved = append(out.Unresolved, secondInput)
	}
	if len(out.Unresolved) > 0 {
		out.Kind = OutcomeAmbiguous
		u.log.Debug("comparison ambiguous", "first", firstInput, "second", secondInput, "unresolved", len(out.Unresolved))
		return out
	}

	out.Kind = OutcomeComplete
	out.Payload = &entity.ComparisonPayload{First: first, Second: second}
	return out
}

func (u *ComparisonUseCase) resolveDevice(catalog *entity.Catalog, input string) (entity.DeviceReport, bool) {
	if catalog == nil {
		return entity.DeviceReport{}, false
	}
	best, ok := u.matcher.ExtractOne(input, catalog.Names())
	if !ok || best.Score < constants.ComparisonThreshold {
		return entity.DeviceReport{}, false
	}
	entry, ok := catalog.Entry(best.Name)
	if !ok {
		return entity.DeviceReport{}, false
	}
	return entity.DeviceReport{
		Input: input,
		Entry: entry,
		Score: best.Score,
		Link:  u.links.Resolve(catalog, best.Name),
	}, true
}
