package timescaledb

import (
	"context"
	"time"

	"github.com/powersim/solarparam/internal/log"
)

// startHealthMonitor starts a goroutine that periodically pings the database
// so connection loss is logged close to when it happens, not when the next
// sample write fails.
func (t *Storage) startHealthMonitor(ctx context.Context) {
	go func() {
		t.checkHealth()

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.checkHealth()
			case <-ctx.Done():
				log.Info("stopping TimescaleDB health monitor")
				return
			}
		}
	}()
}

func (t *Storage) checkHealth() {
	if t.DBConn == nil {
		log.Warn("TimescaleDB health check failed: no database connection")
		return
	}
	sqlDB, err := t.DBConn.DB()
	if err != nil {
		log.Warn("TimescaleDB health check failed:", err)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		log.Warn("TimescaleDB health check failed:", err)
		return
	}
	log.Debug("TimescaleDB health check passed")
}
