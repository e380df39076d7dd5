package storage

import (
	"context"

	"github.com/xaenox/copilot-bot/internal/models"
)

// Storage keeps the exchange history behind /history.
type Storage interface {
	SaveExchange(ctx context.Context, exchange *models.Exchange) error
	// GetUserExchanges returns a user's exchanges newest first, skipping the
	// first offset of them. A limit of zero or less returns all remaining
	// exchanges; a negative offset counts as zero.
	GetUserExchanges(ctx context.Context, userID int64, limit, offset int) ([]*models.Exchange, error)
	Close() error
}
