package inquiry

import (
	"net/http"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/pkg/paginator"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// GetQueue godoc
// @Summary      Current queue
// @Description  Ranked queued inquiries of one department lane
// @Tags         queue
// @Produce      json
// @Param        department  query     string  false  "Department id, empty for all"
// @Param        sort_mode   query     string  false  "Timestamp, Priority or SLAs"
// @Param        page        query     int     false  "Page number"
// @Param        page_size   query     int     false  "Page size"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      503  {object}  map[string]any
// @Router       /v1/queue [get]
func (h *Handler) GetQueue(c *gin.Context) {
	mode, err := h.sortMode(c)
	if err != nil {
		h.abort(c, err)
		return
	}

	positions, err := h.queueManager.QueuePosition(c.Request.Context(), domain.PositionQuery{
		Department: c.Query("department"),
		SortMode:   mode,
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	if positions == nil {
		positions = []domain.QueuePosition{}
	}

	paginate := paginator.New(c)
	start, end := paginate.Window(len(positions))

	c.JSON(http.StatusOK, gin.H{
		"data":      positions[start:end],
		"sort_mode": mode,
		"total":     len(positions),
		"page":      paginate.Page,
		"page_size": paginate.Size,
	})
}

// GetPosition godoc
// @Summary      Queue position of an inquiry
// @Tags         queue
// @Produce      json
// @Param        id          path      string  true   "Inquiry id"
// @Param        department  query     string  false  "Department id"
// @Param        sort_mode   query     string  false  "Timestamp, Priority or SLAs"
// @Success      200  {object}  domain.QueuePosition
// @Failure      404  {object}  map[string]any
// @Router       /v1/queue/inquiries/{id}/position [get]
func (h *Handler) GetPosition(c *gin.Context) {
	mode, err := h.sortMode(c)
	if err != nil {
		h.abort(c, err)
		return
	}

	positions, err := h.queueManager.QueuePosition(c.Request.Context(), domain.PositionQuery{
		InquiryID:  c.Param("id"),
		Department: c.Query("department"),
		SortMode:   mode,
	})
	if err != nil {
		h.abort(c, err)
		return
	}
	if len(positions) == 0 {
		h.abort(c, errors.Wrapf(constant.ErrNotFound, "inquiry %s is not queued", c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, positions[0])
}

// GetDepartments godoc
// @Summary      Departments with queued inquiries
// @Tags         queue
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/queue/departments [get]
func (h *Handler) GetDepartments(c *gin.Context) {
	departments, err := h.queueManager.GetDistinctQueuedDepartments(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	if departments == nil {
		departments = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"data": departments})
}

// Recover godoc
// @Summary      Clear every lease
// @Description  Makes every leased inquiry claimable again. Run after a fleet restart.
// @Tags         queue
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/queue/recover [post]
func (h *Handler) Recover(c *gin.Context) {
	affected, err := h.queueManager.RecoverAll(c.Request.Context())
	if err != nil {
		h.abort(c, err)
		return
	}
	if affected > 0 {
		h.publisher.Publish(c.Request.Context(), domain.QueueEvent{Type: domain.QueueEventRecovered})
	}

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}
