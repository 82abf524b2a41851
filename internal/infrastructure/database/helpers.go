package database

import (
	"context"
	"fmt"
	"time"

	"clockshop-backend/internal/shared/metrics"
	"clockshop-backend/pkg/logger"
)

// Ping kiểm tra database connection còn sống không (timeout 5s)
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng pool. Safe to call multiple times.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	db.Pool.Close()
	db.Pool = nil

	logger.Info("PostgreSQL connection pool closed", nil)
	return nil
}

// PoolStats is a snapshot of the pool counters used for monitoring
type PoolStats struct {
	AcquiredConns        int32
	IdleConns            int32
	ConstructingConns    int32
	TotalConns           int32
	MaxConns             int32
	AcquireCount         int64
	AcquireDuration      time.Duration
	CanceledAcquireCount int64
	EmptyAcquireCount    int64
}

// Stats trả về snapshot của pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquiredConns:        raw.AcquiredConns(),
		IdleConns:            raw.IdleConns(),
		ConstructingConns:    raw.ConstructingConns(),
		TotalConns:           raw.TotalConns(),
		MaxConns:             raw.MaxConns(),
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		EmptyAcquireCount:    raw.EmptyAcquireCount(),
	}, nil
}

// AvgAcquireDuration returns the mean time spent waiting for a connection
func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}

// Utilization returns acquired/max as a percentage
func (s *PoolStats) Utilization() float64 {
	if s.MaxConns == 0 {
		return 0
	}
	return float64(s.AcquiredConns) / float64(s.MaxConns) * 100
}

// MonitorPoolHealth publishes pool gauges every interval and warns on
// exhaustion or slow acquires. Runs until ctx is done.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				logger.Warn("Pool stats unavailable", map[string]interface{}{"error": err.Error()})
				continue
			}
			recordPoolStats(stats)

			if u := stats.Utilization(); u > 80 {
				logger.Warn("High DB pool utilization", map[string]interface{}{
					"utilization_pct": u,
					"acquired":        stats.AcquiredConns,
					"max":             stats.MaxConns,
				})
			}
			if avg := stats.AvgAcquireDuration(); avg > 100*time.Millisecond {
				logger.Warn("High DB acquire latency", map[string]interface{}{"avg_acquire": avg.String()})
			}

		case <-ctx.Done():
			return
		}
	}
}

func recordPoolStats(stats *PoolStats) {
	metrics.DBPoolConnections.WithLabelValues("acquired").Set(float64(stats.AcquiredConns))
	metrics.DBPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns))
	metrics.DBPoolConnections.WithLabelValues("constructing").Set(float64(stats.ConstructingConns))
	metrics.DBPoolConnections.WithLabelValues("max").Set(float64(stats.MaxConns))
}
