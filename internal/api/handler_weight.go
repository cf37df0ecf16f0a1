package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetWeight handles GET /api/weight. It returns the latest scale reading and
// whether the acquisition loop is still running; it never blocks on the
// device. A stale reading with alive=true means a transient disconnect, not
// a dead service.
func (h *Handler) GetWeight(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"weight": h.svc.CaptureWeight(),
		"alive":  h.svc.ScaleAlive(),
	})
}

// GetHealth handles GET /healthz: database reachability plus the scale
// loop's alive flag.
func (h *Handler) GetHealth(c *gin.Context) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"database": err.Error(),
			"scale":    h.svc.ScaleAlive(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"database": "ok",
		"scale":    h.svc.ScaleAlive(),
	})
}
