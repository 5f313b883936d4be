package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"chatterbox_service/pkg/logger"
)

// NewDatabaseConnection open the pgx pool backing the member table.
// Postgres is required at startup, the caller treats a nil pool as fatal.
func NewDatabaseConnection(d Connection) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	dbConfig, parseErr := pgxpool.ParseConfig(d.ConnectStr)
	if parseErr != nil {
		return nil, parseErr
	}
	for i := 0; i < d.RetryCount; i++ {
		pool, err = pgxpool.ConnectConfig(context.Background(), dbConfig)
		if err == nil {
			break
		}
		logger.Log.Warn(
			"Failed to connect to member database, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(d.RetryInterval)
	}

	return pool, err
}
