package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weighbridge-backend/internal/model"
	"weighbridge-backend/internal/weighing"
)

type openWeighingRequest struct {
	Flow         string `json:"flow" binding:"required"`
	Plate        string `json:"plate" binding:"required"`
	TrailerPlate string `json:"trailer_plate"`
	Driver       string `json:"driver" binding:"required"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	CargoType    string `json:"cargo_type"`
	Weight       string `json:"weight" binding:"required"`
}

// PostWeighing handles POST /api/weighings, the first-stage entry.
func (h *Handler) PostWeighing(c *gin.Context) {
	var req openWeighingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pending, err := h.svc.Open(c.Request.Context(), weighing.OpenRequest{
		Flow:         model.WeighFlow(req.Flow),
		Plate:        req.Plate,
		TrailerPlate: req.TrailerPlate,
		Driver:       req.Driver,
		Origin:       req.Origin,
		Destination:  req.Destination,
		CargoType:    req.CargoType,
		Weight:       req.Weight,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pending)
}

type closeWeighingRequest struct {
	Weight    string `json:"weight" binding:"required"`
	CargoType string `json:"cargo_type"`
}

// PostCloseWeighing handles POST /api/weighings/:id/close, the second-stage
// exit that produces the ticket.
func (h *Handler) PostCloseWeighing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid weighing ID"})
		return
	}

	var req closeWeighingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.svc.Close(c.Request.Context(), id, weighing.CloseRequest{
		Weight:    req.Weight,
		CargoType: req.CargoType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if h.pool != nil {
		h.pool.Dispatch(ticket.ID)
	}
	c.JSON(http.StatusCreated, ticket)
}

// GetWeighings handles GET /api/weighings, listing open weighings newest
// first.
func (h *Handler) GetWeighings(c *gin.Context) {
	rows, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
