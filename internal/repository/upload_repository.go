package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pmdash/internal/tabular"
)

// UploadRepository keeps the last parsed upload of every card, per browser
// session. Get returns nil, nil for an empty slot.
type UploadRepository interface {
	Put(ctx context.Context, session, card string, table *tabular.Table) error
	Get(ctx context.Context, session, card string) (*tabular.Table, error)
	Delete(ctx context.Context, session, card string) error
	Cards(ctx context.Context, session string) ([]string, error)
}

// Sweeper is implemented by stores that expire slots themselves.
type Sweeper interface {
	Sweep() int
}

type slot struct {
	table   *tabular.Table
	expires time.Time
}

type memoryUploadRepository struct {
	mu    sync.RWMutex
	slots map[string]slot
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryUploadRepository(ttl time.Duration) UploadRepository {
	return &memoryUploadRepository{
		slots: make(map[string]slot),
		ttl:   ttl,
		now:   time.Now,
	}
}

func slotKey(session, card string) string {
	return session + "\x00" + card
}

func (r *memoryUploadRepository) Put(_ context.Context, session, card string, table *tabular.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)
	r.slots[slotKey(session, card)] = slot{table: table, expires: now.Add(r.ttl)}
	return nil
}

func (r *memoryUploadRepository) Get(_ context.Context, session, card string) (*tabular.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[slotKey(session, card)]
	if !ok || (r.ttl > 0 && r.now().After(s.expires)) {
		return nil, nil
	}
	return s.table, nil
}

func (r *memoryUploadRepository) Delete(_ context.Context, session, card string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, slotKey(session, card))
	return nil
}

func (r *memoryUploadRepository) Cards(_ context.Context, session string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	prefix := session + "\x00"
	var cards []string
	for k, s := range r.slots {
		if r.ttl > 0 && now.After(s.expires) {
			continue
		}
		if card, ok := strings.CutPrefix(k, prefix); ok {
			cards = append(cards, card)
		}
	}
	sort.Strings(cards)
	return cards, nil
}

// Sweep drops expired slots and reports how many were removed.
func (r *memoryUploadRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.slots)
	r.evictLocked(r.now())
	return before - len(r.slots)
}

// evictLocked drops expired slots; callers hold the write lock.
func (r *memoryUploadRepository) evictLocked(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for k, s := range r.slots {
		if now.After(s.expires) {
			delete(r.slots, k)
		}
	}
}

const uploadKeyPrefix = "pmdash:upload:"

type redisUploadRepository struct {
	cache CacheRepository
	ttl   time.Duration
}

// NewRedisUploadRepository stores slots as JSON under
// "pmdash:upload:<session>:<card>" with the session TTL.
func NewRedisUploadRepository(cache CacheRepository, ttl time.Duration) UploadRepository {
	return &redisUploadRepository{cache: cache, ttl: ttl}
}

func redisSlotKey(session, card string) string {
	return uploadKeyPrefix + session + ":" + card
}

func (r *redisUploadRepository) Put(ctx context.Context, session, card string, table *tabular.Table) error {
	if err := r.cache.SetJSON(ctx, redisSlotKey(session, card), table, r.ttl); err != nil {
		return fmt.Errorf("store upload %s: %w", card, err)
	}
	return nil
}

func (r *redisUploadRepository) Get(ctx context.Context, session, card string) (*tabular.Table, error) {
	var table tabular.Table
	found, err := r.cache.GetJSON(ctx, redisSlotKey(session, card), &table)
	if err != nil {
		return nil, fmt.Errorf("load upload %s: %w", card, err)
	}
	if !found {
		return nil, nil
	}
	return &table, nil
}

func (r *redisUploadRepository) Delete(ctx context.Context, session, card string) error {
	return r.cache.Delete(ctx, redisSlotKey(session, card))
}

func (r *redisUploadRepository) Cards(ctx context.Context, session string) ([]string, error) {
	keys, err := r.cache.Keys(ctx, redisSlotKey(session, "*"))
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	prefix := redisSlotKey(session, "")
	cards := make([]string, 0, len(keys))
	for _, k := range keys {
		cards = append(cards, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(cards)
	return cards, nil
}
