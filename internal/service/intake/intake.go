package intake

import (
	"context"
	"strings"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// HandleRoomEvent applies one chat-room event to the queue.
func (is *intakeService) HandleRoomEvent(ctx context.Context, event domain.RoomEvent) error {
	if strings.TrimSpace(event.RoomID) == "" {
		return errors.Wrap(constant.ErrInvalidArgument, "room event without room id")
	}

	switch event.Type {
	case domain.RoomEventCreated:
		return is.enqueue(ctx, event)
	case domain.RoomEventMessage:
		return is.updateLastMessage(ctx, event)
	case domain.RoomEventRemoved:
		return is.remove(ctx, event)
	default:
		return errors.Wrapf(constant.ErrInvalidArgument, "unknown room event type %q", event.Type)
	}
}

func (is *intakeService) enqueue(ctx context.Context, event domain.RoomEvent) error {
	ts := event.Ts.UTC()
	if event.Ts.IsZero() {
		ts = is.clock.Now()
	}

	inquiry := domain.Inquiry{
		ID:      uuid.NewString(),
		RoomID:  event.RoomID,
		Name:    event.Name,
		Status:  domain.InquiryStatusQueued,
		Ts:      ts,
		Source:  event.Source,
		Visitor: event.Visitor,
	}
	if event.Department != "" {
		department := event.Department
		inquiry.Department = &department
	}
	if event.Message != nil {
		inquiry.Message = event.Message.Msg
	}

	if err := is.inquiryRepository.Create(ctx, inquiry); err != nil {
		if errors.Is(err, constant.ErrAlreadyQueued) {
			is.logger.WithContext(ctx).Infof("intake: room %s already queued, skipping", event.RoomID)
			return nil
		}
		return errors.Wrapf(err, "intake: queue room %s", event.RoomID)
	}

	is.publisher.Publish(ctx, domain.QueueEvent{
		Type:       domain.QueueEventQueued,
		InquiryID:  inquiry.ID,
		RoomID:     inquiry.RoomID,
		Department: inquiry.DepartmentID(),
		OccurredAt: is.clock.Now(),
	})
	return nil
}

// updateLastMessage is best effort; a failure only leaves the denormalized
// copy stale.
func (is *intakeService) updateLastMessage(ctx context.Context, event domain.RoomEvent) error {
	if event.Message == nil {
		return errors.Wrap(constant.ErrInvalidArgument, "message event without message")
	}
	if _, err := is.queueManager.SetLastMessage(ctx, event.RoomID, *event.Message); err != nil {
		is.logger.WithContext(ctx).Warnf("intake: last message of room %s not updated: %v", event.RoomID, err)
	}
	return nil
}

func (is *intakeService) remove(ctx context.Context, event domain.RoomEvent) error {
	affected, err := is.queueManager.RemoveByRoomID(ctx, event.RoomID)
	if err != nil {
		return errors.Wrapf(err, "intake: remove room %s", event.RoomID)
	}
	if affected > 0 {
		is.publisher.Publish(ctx, domain.QueueEvent{
			Type:       domain.QueueEventRemoved,
			RoomID:     event.RoomID,
			OccurredAt: is.clock.Now(),
		})
	}
	return nil
}
