package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Check pings the backing stores and reports per-dependency status.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}

	if h.DB != nil {
		if err := h.DB.Ping(ctx); err != nil {
			deps["postgres"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			deps["postgres"] = "up"
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			deps["redis"] = "up"
		}
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "deps": deps, "time": time.Now().UTC()})
}
