package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/UTurtleDev/gcl/httpx"
	"github.com/UTurtleDev/gcl/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	redis redis.UniversalClient
}

// NewHealthHandler builds the health endpoints. redis may be nil when no
// backend uses it.
func NewHealthHandler(db *gorm.DB, rdb redis.UniversalClient) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health is the liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, httpx.HealthResponse{Status: httpx.StatusOK})
}

// Healthz checks the database and, when configured, Redis.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()
	log := logger.FromContext(r.Context())

	checks := map[string]string{"database": httpx.StatusOK}
	if err := h.db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		log.Warn("database health check failed", zap.Error(err))
		checks["database"] = httpx.StatusFail
	}
	if h.redis != nil {
		checks["redis"] = httpx.StatusOK
		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Warn("redis health check failed", zap.Error(err))
			checks["redis"] = httpx.StatusFail
		}
	}
	httpx.Health(w, checks)
}
