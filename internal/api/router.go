package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"weighbridge-backend/config"
	"weighbridge-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), 5)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/healthz", h.GetHealth)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/weight", h.GetWeight)

		api.POST("/weighings", h.PostWeighing)
		api.GET("/weighings", h.GetWeighings)
		api.POST("/weighings/:id/close", h.PostCloseWeighing)

		api.GET("/tickets", caching, h.GetTickets)
		api.GET("/tickets/:id", h.GetTicket)
		api.GET("/tickets/:id/pdf", h.GetTicketPDF)
	}

	return r
}
