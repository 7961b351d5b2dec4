package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mitech808/phone-price-bot/internal/domain/entity"
	"github.com/mitech808/phone-price-bot/internal/domain/repository"
)

type memoryUser struct {
	Username  string
	FirstSeen time.Time
	LastSeen  time.Time
	Starts    int
}

type memoryStatsRepository struct {
	mu      sync.RWMutex
	users   map[int64]*memoryUser
	queries map[string]int
	events  map[string]struct{}
}

// NewMemoryStatsRepository in-memory statistika (restartda yo'qoladi)
func NewMemoryStatsRepository() repository.StatsRepository {
	return &memoryStatsRepository{
		users:   make(map[int64]*memoryUser),
		queries: make(map[string]int),
		events:  make(map[string]struct{}),
	}
}

// RecordVisit /start tashrifini saqlash
func (m *memoryStatsRepository) RecordVisit(ctx context.Context, visit entity.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := m.touch(visit.UserID, visit.Username, visit.At)
	u.Starts++
	return nil
}

// RecordQuery so'rov hodisasini saqlash; bir xil ID ikki marta sanalmaydi
func (m *memoryStatsRepository) RecordQuery(ctx context.Context, event entity.QueryEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.events[event.ID]; seen {
		return nil
	}
	m.events[event.ID] = struct{}{}
	m.touch(event.UserID, "", event.At)
	m.queries[event.Kind]++
	return nil
}

func (m *memoryStatsRepository) touch(userID int64, username string, at time.Time) *memoryUser {
	if at.IsZero() {
		at = time.Now()
	}
	u, ok := m.users[userID]
	if !ok {
		u = &memoryUser{FirstSeen: at}
		m.users[userID] = u
	}
	if username != "" {
		u.Username = username
	}
	u.LastSeen = at
	return u
}

// Summary umumiy statistika
func (m *memoryStatsRepository) Summary(ctx context.Context) (entity.StatsSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sum := entity.StatsSummary{Users: len(m.users), Queries: make(map[string]int, len(m.queries))}
	for _, u := range m.users {
		sum.Starts += u.Starts
	}
	for k, v := range m.queries {
		sum.Queries[k] = v
	}
	return sum, nil
}

func (m *memoryStatsRepository) Close() error { return nil }
