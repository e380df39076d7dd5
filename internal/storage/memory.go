package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xaenox/copilot-bot/internal/models"
)

type MemoryStorage struct {
	mu        sync.RWMutex
	exchanges map[string]*models.Exchange
	// byUser holds exchange ids in insertion order.
	byUser map[int64][]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		exchanges: make(map[string]*models.Exchange),
		byUser:    make(map[int64][]string),
	}
}

func (s *MemoryStorage) SaveExchange(ctx context.Context, exchange *models.Exchange) error {
	if exchange.ID == "" {
		return fmt.Errorf("exchange id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now()
	}

	stored := *exchange
	prev, exists := s.exchanges[exchange.ID]
	if exists && prev.UserID != exchange.UserID {
		s.byUser[prev.UserID] = removeID(s.byUser[prev.UserID], exchange.ID)
		exists = false
	}
	if !exists {
		s.byUser[exchange.UserID] = append(s.byUser[exchange.UserID], exchange.ID)
	}
	s.exchanges[exchange.ID] = &stored
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *MemoryStorage) GetUserExchanges(ctx context.Context, userID int64, limit, offset int) ([]*models.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID]
	if offset < 0 {
		offset = 0
	}

	result := make([]*models.Exchange, 0, min(max(limit, 0), len(ids)))
	for i := len(ids) - 1 - offset; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		copied := *s.exchanges[ids[i]]
		result = append(result, &copied)
	}
	return result, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
