package inquiry

import (
	"context"
	"net/http"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type queueManager interface {
	QueuePosition(ctx context.Context, query domain.PositionQuery) ([]domain.QueuePosition, error)
	GetDistinctQueuedDepartments(ctx context.Context) ([]string, error)
	FindByRoomID(ctx context.Context, rid string) (*domain.Inquiry, error)
	FindByID(ctx context.Context, inquiryID string) (*domain.Inquiry, error)
	FindOneQueuedByRoomID(ctx context.Context, rid string) (*domain.Inquiry, error)
	SetDepartment(ctx context.Context, inquiryID, department string) (*domain.Inquiry, error)
	Release(ctx context.Context, inquiryID string) error
	RecoverAll(ctx context.Context) (int64, error)
	RemoveByRoomID(ctx context.Context, rid string) (int64, error)
	SetPriorityForRoom(ctx context.Context, rid string, priority domain.Priority) (int64, error)
	UnsetPriorityForRoom(ctx context.Context, rid string) (int64, error)
	SetSlaForRoom(ctx context.Context, rid string, sla domain.SLA) (int64, error)
	UnsetSlaForRoom(ctx context.Context, rid string) (int64, error)
	BulkUnsetSla(ctx context.Context, rids []string) (int64, error)
}

type settingsService interface {
	SortMode(ctx context.Context) domain.SortMode
	SetSortMode(ctx context.Context, raw string) (domain.SortMode, error)
}

type publisher interface {
	Publish(ctx context.Context, event domain.QueueEvent)
}

type Handler struct {
	queueManager queueManager
	settings     settingsService
	publisher    publisher
	logger       *log.Logger
}

func New(
	qm queueManager,
	settings settingsService,
	publisher publisher,
	logger *log.Logger,
) *Handler {
	return &Handler{
		queueManager: qm,
		settings:     settings,
		publisher:    publisher,
		logger:       logger,
	}
}

// sortMode reads the optional sort_mode query parameter, falling back to the
// active setting.
func (h *Handler) sortMode(c *gin.Context) (domain.SortMode, error) {
	raw := c.Query("sort_mode")
	if raw == "" {
		return h.settings.SortMode(c.Request.Context()), nil
	}
	return queue.ParseSortMode(raw)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, constant.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, constant.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, constant.ErrAlreadyQueued):
		return http.StatusConflict
	case errors.Is(err, constant.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, constant.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) abort(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithContext(c.Request.Context()).Errorf("inquiry handler: %v", err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"code":    http.StatusBadRequest,
		"message": err.Error(),
	})
}
