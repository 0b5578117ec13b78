package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	mongo *mongo.Client
	redis *redis.Client
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		mongo: mongoClient,
		redis: redisClient,
	}
}

// Health 存活检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查，探测MongoDB和Redis连接
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if err := h.mongo.Ping(ctx, readpref.Primary()); err != nil {
		checks["mongo"] = err.Error()
		healthy = false
	} else {
		checks["mongo"] = "ok"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": checks,
	})
}
