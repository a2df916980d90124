package llm

import (
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/rcliao/prompt-canvas/internal/config"
)

const defaultBreakerInterval = 60 * time.Second

func newBreaker(cfg config.CircuitBreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[string] {
	maxFailures := uint32(cfg.MaxFailures)
	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1, // one probe while half-open
		Interval:    defaultBreakerInterval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}
