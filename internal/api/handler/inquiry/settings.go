package inquiry

import (
	"net/http"

	"arvan/inquiry-queue/internal/api/request"

	"github.com/gin-gonic/gin"
)

// GetSortMode godoc
// @Summary      Active queue sort mode
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/settings/sort-mode [get]
func (h *Handler) GetSortMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sort_mode": h.settings.SortMode(c.Request.Context())})
}

// SetSortMode godoc
// @Summary      Change the queue sort mode
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body  request.SetSortMode  true  "Sort mode"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Router       /v1/settings/sort-mode [put]
func (h *Handler) SetSortMode(c *gin.Context) {
	var req request.SetSortMode
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mode, err := h.settings.SetSortMode(c.Request.Context(), req.SortMode)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sort_mode": mode})
}
