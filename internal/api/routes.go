package api

import (
	"net/http"

	"arvan/inquiry-queue/internal/api/handler/inquiry"
	"arvan/inquiry-queue/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func (s *Server) SetupAPIRoutes(h *inquiry.Handler) {
	r := s.engine
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1", middleware.RequestLogger(s.logger))

	q := v1.Group("/queue")
	q.GET("", h.GetQueue)
	q.GET("/departments", h.GetDepartments)
	q.POST("/recover", h.Recover)
	q.POST("/sla/bulk-unset", h.BulkUnsetSla)
	q.GET("/inquiries/:id", h.Get)
	q.GET("/inquiries/:id/position", h.GetPosition)
	q.PUT("/inquiries/:id/department", h.SetDepartment)
	q.POST("/inquiries/:id/release", h.Release)

	rooms := v1.Group("/rooms/:rid")
	rooms.GET("/inquiry", h.GetByRoom)
	rooms.DELETE("/inquiry", h.RemoveByRoom)
	rooms.PUT("/priority", h.SetPriority)
	rooms.DELETE("/priority", h.UnsetPriority)
	rooms.PUT("/sla", h.SetSla)
	rooms.DELETE("/sla", h.UnsetSla)

	settings := v1.Group("/settings")
	settings.GET("/sort-mode", h.GetSortMode)
	settings.PUT("/sort-mode", h.SetSortMode)
}
