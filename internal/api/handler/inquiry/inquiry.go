package inquiry

import (
	"net/http"

	"arvan/inquiry-queue/internal/api/request"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GetByRoom godoc
// @Summary      Inquiry of a room
// @Description  Latest inquiry of the room, or only the queued one when queued=true
// @Tags         inquiry
// @Produce      json
// @Param        rid     path   string  true   "Room id"
// @Param        queued  query  bool    false  "Only queued inquiries"
// @Success      200  {object}  domain.Inquiry
// @Failure      404  {object}  map[string]any
// @Router       /v1/rooms/{rid}/inquiry [get]
func (h *Handler) GetByRoom(c *gin.Context) {
	rid := c.Param("rid")

	var (
		inquiry *domain.Inquiry
		err     error
	)
	if c.Query("queued") == "true" {
		inquiry, err = h.queueManager.FindOneQueuedByRoomID(c.Request.Context(), rid)
	} else {
		inquiry, err = h.queueManager.FindByRoomID(c.Request.Context(), rid)
	}
	if err != nil {
		h.abort(c, err)
		return
	}
	if inquiry == nil {
		h.abort(c, errors.Wrapf(constant.ErrNotFound, "room %s has no inquiry", rid))
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// Get godoc
// @Summary      Inquiry by id
// @Tags         inquiry
// @Produce      json
// @Param        id  path  string  true  "Inquiry id"
// @Success      200  {object}  domain.Inquiry
// @Failure      404  {object}  map[string]any
// @Router       /v1/queue/inquiries/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	inquiry, err := h.queueManager.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abort(c, err)
		return
	}
	if inquiry == nil {
		h.abort(c, errors.Wrapf(constant.ErrNotFound, "inquiry %s", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// RemoveByRoom godoc
// @Summary      Remove the inquiries of a room
// @Tags         inquiry
// @Produce      json
// @Param        rid  path  string  true  "Room id"
// @Success      200  {object}  map[string]any
// @Router       /v1/rooms/{rid}/inquiry [delete]
func (h *Handler) RemoveByRoom(c *gin.Context) {
	rid := c.Param("rid")
	affected, err := h.queueManager.RemoveByRoomID(c.Request.Context(), rid)
	if err != nil {
		h.abort(c, err)
		return
	}
	if affected > 0 {
		h.publisher.Publish(c.Request.Context(), domain.QueueEvent{
			Type:   domain.QueueEventRemoved,
			RoomID: rid,
		})
	}

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// SetDepartment godoc
// @Summary      Move an inquiry to another department
// @Tags         inquiry
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Inquiry id"
// @Param        body  body  request.SetDepartment  true  "Department"
// @Success      200  {object}  domain.Inquiry
// @Failure      404  {object}  map[string]any
// @Router       /v1/queue/inquiries/{id}/department [put]
func (h *Handler) SetDepartment(c *gin.Context) {
	var req request.SetDepartment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	inquiry, err := h.queueManager.SetDepartment(c.Request.Context(), c.Param("id"), req.Department)
	if err != nil {
		h.abort(c, err)
		return
	}
	if inquiry == nil {
		h.abort(c, errors.Wrapf(constant.ErrNotFound, "inquiry %s", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, inquiry)
}

// Release godoc
// @Summary      Release the lease of an inquiry
// @Tags         inquiry
// @Produce      json
// @Param        id  path  string  true  "Inquiry id"
// @Success      204
// @Router       /v1/queue/inquiries/{id}/release [post]
func (h *Handler) Release(c *gin.Context) {
	id := c.Param("id")
	if err := h.queueManager.Release(c.Request.Context(), id); err != nil {
		h.abort(c, err)
		return
	}
	h.publisher.Publish(c.Request.Context(), domain.QueueEvent{
		Type:      domain.QueueEventReleased,
		InquiryID: id,
	})

	c.Status(http.StatusNoContent)
}
