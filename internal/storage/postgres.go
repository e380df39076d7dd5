package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/xaenox/copilot-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := NewPostgresStorageFromDB(db, logger)
	if err := storage.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("dbname", config.DBName))
	return storage, nil
}

// NewPostgresStorageFromDB wraps an open handle without running migrations.
func NewPostgresStorageFromDB(db *sql.DB, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

func (s *PostgresStorage) initializeSchema(ctx context.Context) error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) SaveExchange(ctx context.Context, exchange *models.Exchange) error {
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO exchanges (id, user_id, input, intent, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET input = EXCLUDED.input, intent = EXCLUDED.intent, response = EXCLUDED.response`

	_, err := s.db.ExecContext(ctx, query,
		exchange.ID,
		exchange.UserID,
		exchange.Input,
		exchange.Intent,
		exchange.Response,
		exchange.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving exchange: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetUserExchanges(ctx context.Context, userID int64, limit, offset int) ([]*models.Exchange, error) {
	query := `
		SELECT id, user_id, input, intent, response, created_at
		FROM exchanges
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	// LIMIT NULL is no limit.
	pageSize := sql.NullInt64{Int64: int64(limit), Valid: limit > 0}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("error querying exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []*models.Exchange
	for rows.Next() {
		e := &models.Exchange{}
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Input,
			&e.Intent,
			&e.Response,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning exchange: %w", err)
		}
		exchanges = append(exchanges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchanges: %w", err)
	}

	return exchanges, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
