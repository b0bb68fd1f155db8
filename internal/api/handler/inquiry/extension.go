package inquiry

import (
	"net/http"

	"arvan/inquiry-queue/internal/api/request"
	"arvan/inquiry-queue/internal/domain"

	"github.com/gin-gonic/gin"
)

// SetPriority godoc
// @Summary      Set the priority of a room's inquiries
// @Tags         extension
// @Accept       json
// @Produce      json
// @Param        rid   path  string               true  "Room id"
// @Param        body  body  request.SetPriority  true  "Priority"
// @Success      200  {object}  map[string]any
// @Failure      501  {object}  map[string]any
// @Router       /v1/rooms/{rid}/priority [put]
func (h *Handler) SetPriority(c *gin.Context) {
	var req request.SetPriority
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	affected, err := h.queueManager.SetPriorityForRoom(c.Request.Context(), c.Param("rid"), domain.Priority{
		ID:     req.ID,
		Weight: req.Weight,
	})
	h.respondAffected(c, affected, err)
}

// UnsetPriority godoc
// @Summary      Clear the priority of a room's inquiries
// @Tags         extension
// @Produce      json
// @Param        rid  path  string  true  "Room id"
// @Success      200  {object}  map[string]any
// @Failure      501  {object}  map[string]any
// @Router       /v1/rooms/{rid}/priority [delete]
func (h *Handler) UnsetPriority(c *gin.Context) {
	affected, err := h.queueManager.UnsetPriorityForRoom(c.Request.Context(), c.Param("rid"))
	h.respondAffected(c, affected, err)
}

// SetSla godoc
// @Summary      Set the SLA of a room's inquiries
// @Tags         extension
// @Accept       json
// @Produce      json
// @Param        rid   path  string          true  "Room id"
// @Param        body  body  request.SetSla  true  "SLA"
// @Success      200  {object}  map[string]any
// @Failure      501  {object}  map[string]any
// @Router       /v1/rooms/{rid}/sla [put]
func (h *Handler) SetSla(c *gin.Context) {
	var req request.SetSla
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	affected, err := h.queueManager.SetSlaForRoom(c.Request.Context(), c.Param("rid"), domain.SLA{
		ID:                        req.ID,
		EstimatedWaitingTimeQueue: req.EstimatedWaitingTimeQueue,
	})
	h.respondAffected(c, affected, err)
}

// UnsetSla godoc
// @Summary      Clear the SLA of a room's inquiries
// @Tags         extension
// @Produce      json
// @Param        rid  path  string  true  "Room id"
// @Success      200  {object}  map[string]any
// @Failure      501  {object}  map[string]any
// @Router       /v1/rooms/{rid}/sla [delete]
func (h *Handler) UnsetSla(c *gin.Context) {
	affected, err := h.queueManager.UnsetSlaForRoom(c.Request.Context(), c.Param("rid"))
	h.respondAffected(c, affected, err)
}

// BulkUnsetSla godoc
// @Summary      Clear the SLA of many rooms
// @Tags         extension
// @Accept       json
// @Produce      json
// @Param        body  body  request.BulkUnsetSla  true  "Room ids"
// @Success      200  {object}  map[string]any
// @Failure      501  {object}  map[string]any
// @Router       /v1/queue/sla/bulk-unset [post]
func (h *Handler) BulkUnsetSla(c *gin.Context) {
	var req request.BulkUnsetSla
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	affected, err := h.queueManager.BulkUnsetSla(c.Request.Context(), req.RoomIDs)
	h.respondAffected(c, affected, err)
}

func (h *Handler) respondAffected(c *gin.Context, affected int64, err error) {
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}
