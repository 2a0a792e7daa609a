package handlers

import (
	"net/http"
	"time"

	"github.com/bloomday/gala/internal/cache"
	"github.com/gin-gonic/gin"
)

// Health reports liveness plus the state of the server's dependencies.
// Redis is optional, so a missing cache never fails the check.
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	components := gin.H{}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		components["database"] = "down"
		status = http.StatusServiceUnavailable
	} else {
		components["database"] = "up"
	}

	if redisClient := cache.GetRedisClient(); redisClient != nil {
		if err := redisClient.Ping(c.Request.Context()); err != nil {
			components["redis"] = "down"
		} else {
			components["redis"] = "up"
		}
	} else {
		components["redis"] = "disabled"
	}

	c.JSON(status, gin.H{
		"status":     http.StatusText(status),
		"time":       time.Now().UTC().Format(time.RFC3339),
		"components": components,
	})
}
