package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"weighbridge-backend/internal/render"
	"weighbridge-backend/internal/store"
	"weighbridge-backend/internal/weighing"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc      *weighing.Service
	store    store.Store
	renderer *render.Renderer
	pool     *render.Pool
}

// NewHandler creates a new API handler. pool may be nil when auto-rendering
// is disabled.
func NewHandler(svc *weighing.Service, st store.Store, renderer *render.Renderer, pool *render.Pool) *Handler {
	return &Handler{
		svc:      svc,
		store:    st,
		renderer: renderer,
		pool:     pool,
	}
}

// writeError maps domain errors onto HTTP statuses: validation failures are
// the operator's to fix, a vanished pending weighing means a concurrent
// close won, and store failures are reported for retry.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *weighing.ValidationError
		notFoundErr   *weighing.NotFoundError
		storeErr      *weighing.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": validationErr.Reason,
			"field": validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &storeErr):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": storeErr.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
