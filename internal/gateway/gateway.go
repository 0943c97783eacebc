package gateway

import (
	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/rabbitmq"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Gateway is the single persistence boundary of the system: typed CRUD over
// Postgres plus a change-notification channel over the RabbitMQ changefeed
// exchange. Every read and write is wrapped in the retry policy; every write
// publishes a ChangeEvent.
type Gateway struct {
	pool   *pgxpool.Pool
	mq     *rabbitmq.RabbitMQ
	logger *logger.Logger
	retry  RetryPolicy
}

func NewGateway(pool *pgxpool.Pool, mq *rabbitmq.RabbitMQ, log *logger.Logger, cfg *config.App) *Gateway {
	return &Gateway{
		pool:   pool,
		mq:     mq,
		logger: log,
		retry: RetryPolicy{
			Attempts:  cfg.RetryAttempts,
			BaseDelay: cfg.RetryBaseDelay(),
		},
	}
}
