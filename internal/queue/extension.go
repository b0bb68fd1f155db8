package queue

import (
	"context"
	"strings"

	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/pkg/errors"
)

// Extension carries the priority and SLA attributes the Priority and SLAs
// orderings read.
type Extension interface {
	SetPriorityForRoom(ctx context.Context, rid string, priority domain.Priority) (int64, error)
	UnsetPriorityForRoom(ctx context.Context, rid string) (int64, error)
	SetSlaForRoom(ctx context.Context, rid string, sla domain.SLA) (int64, error)
	UnsetSlaForRoom(ctx context.Context, rid string) (int64, error)
	BulkUnsetSla(ctx context.Context, rids []string) (int64, error)
}

func NewExtension(edition config.Edition, store priorityStore) Extension {
	if edition == config.EnterpriseEdition {
		return NewEnterpriseExtension(store)
	}
	return UnsupportedExtension{}
}

// UnsupportedExtension is the community edition: inquiries keep the default
// weight and waiting time.
type UnsupportedExtension struct{}

func (UnsupportedExtension) SetPriorityForRoom(context.Context, string, domain.Priority) (int64, error) {
	return 0, errors.Wrap(constant.ErrUnsupported, "set priority")
}

func (UnsupportedExtension) UnsetPriorityForRoom(context.Context, string) (int64, error) {
	return 0, errors.Wrap(constant.ErrUnsupported, "unset priority")
}

func (UnsupportedExtension) SetSlaForRoom(context.Context, string, domain.SLA) (int64, error) {
	return 0, errors.Wrap(constant.ErrUnsupported, "set sla")
}

func (UnsupportedExtension) UnsetSlaForRoom(context.Context, string) (int64, error) {
	return 0, errors.Wrap(constant.ErrUnsupported, "unset sla")
}

func (UnsupportedExtension) BulkUnsetSla(context.Context, []string) (int64, error) {
	return 0, errors.Wrap(constant.ErrUnsupported, "bulk unset sla")
}

type EnterpriseExtension struct {
	store priorityStore
}

func NewEnterpriseExtension(store priorityStore) *EnterpriseExtension {
	return &EnterpriseExtension{store: store}
}

func (e *EnterpriseExtension) SetPriorityForRoom(ctx context.Context, rid string, priority domain.Priority) (int64, error) {
	if err := requireRoom(rid); err != nil {
		return 0, err
	}
	if priority.ID == "" {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "priority id is required")
	}
	if priority.Weight < 0 {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "priority weight must not be negative")
	}
	return e.store.SetPriorityByRoomID(ctx, rid, priority)
}

func (e *EnterpriseExtension) UnsetPriorityForRoom(ctx context.Context, rid string) (int64, error) {
	if err := requireRoom(rid); err != nil {
		return 0, err
	}
	return e.store.UnsetPriorityByRoomID(ctx, rid)
}

func (e *EnterpriseExtension) SetSlaForRoom(ctx context.Context, rid string, sla domain.SLA) (int64, error) {
	if err := requireRoom(rid); err != nil {
		return 0, err
	}
	if sla.ID == "" {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "sla id is required")
	}
	if sla.EstimatedWaitingTimeQueue < 0 {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "estimated waiting time must not be negative")
	}
	return e.store.SetSlaByRoomID(ctx, rid, sla)
}

func (e *EnterpriseExtension) UnsetSlaForRoom(ctx context.Context, rid string) (int64, error) {
	if err := requireRoom(rid); err != nil {
		return 0, err
	}
	return e.store.UnsetSlaByRoomIDs(ctx, []string{rid})
}

func (e *EnterpriseExtension) BulkUnsetSla(ctx context.Context, rids []string) (int64, error) {
	for _, rid := range rids {
		if err := requireRoom(rid); err != nil {
			return 0, err
		}
	}
	return e.store.UnsetSlaByRoomIDs(ctx, rids)
}

func requireRoom(rid string) error {
	if strings.TrimSpace(rid) == "" {
		return errors.Wrap(constant.ErrInvalidArgument, "room id is required")
	}
	return nil
}
