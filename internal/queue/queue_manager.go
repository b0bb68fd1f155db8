package queue

import (
	"context"
	"strings"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/pkg/clock"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// QueueManager hands queued inquiries to dispatchers. It holds no state of
// its own: every claim is decided by one atomic statement in the store, so
// any number of managers in any number of processes can share a store.
type QueueManager struct {
	store     inquiryStore
	leases    LeaseManager
	extension Extension
	clock     clock.Clock
	logger    *log.Logger
}

func NewQueueManager(store inquiryStore, extension Extension, clk clock.Clock, logger *log.Logger) *QueueManager {
	return &QueueManager{
		store:     store,
		leases:    NewLeaseManager(),
		extension: extension,
		clock:     clk,
		logger:    logger,
	}
}

func (qm *QueueManager) Leases() LeaseManager {
	return qm.leases
}

func (qm *QueueManager) SetDepartment(ctx context.Context, inquiryID, department string) (*domain.Inquiry, error) {
	if strings.TrimSpace(inquiryID) == "" {
		return nil, errors.Wrap(constant.ErrInvalidArgument, "inquiry id is required")
	}

	inquiry, err := qm.store.UpdateDepartment(ctx, inquiryID, department)
	if err != nil {
		return nil, nilIfNotFound(err)
	}
	return &inquiry, nil
}

// SetLastMessage denormalizes the latest room message onto its inquiry.
// It never touches the lease or the status.
func (qm *QueueManager) SetLastMessage(ctx context.Context, rid string, message domain.Message) (int64, error) {
	if strings.TrimSpace(rid) == "" {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "room id is required")
	}
	return qm.store.UpdateLastMessageByRoomID(ctx, rid, message)
}

func (qm *QueueManager) FindOneQueuedByRoomID(ctx context.Context, rid string) (*domain.Inquiry, error) {
	inquiry, err := qm.store.FindOneQueuedByRoomID(ctx, rid)
	if err != nil {
		return nil, nilIfNotFound(err)
	}
	return &inquiry, nil
}

func (qm *QueueManager) FindByRoomID(ctx context.Context, rid string) (*domain.Inquiry, error) {
	inquiry, err := qm.store.FindOneByRoomID(ctx, rid)
	if err != nil {
		return nil, nilIfNotFound(err)
	}
	return &inquiry, nil
}

func (qm *QueueManager) FindByID(ctx context.Context, inquiryID string) (*domain.Inquiry, error) {
	if strings.TrimSpace(inquiryID) == "" {
		return nil, errors.Wrap(constant.ErrInvalidArgument, "inquiry id is required")
	}
	inquiry, err := qm.store.FindByID(ctx, inquiryID)
	if err != nil {
		return nil, nilIfNotFound(err)
	}
	return &inquiry, nil
}

func (qm *QueueManager) GetDistinctQueuedDepartments(ctx context.Context) ([]string, error) {
	return qm.store.FindDistinctQueuedDepartments(ctx)
}

// ClaimNext leases the first claimable queued inquiry in sortMode order,
// optionally limited to one department. It returns nil when nothing is
// claimable. Concurrent callers never receive the same inquiry while its
// lease is fresh.
func (qm *QueueManager) ClaimNext(ctx context.Context, sortMode domain.SortMode, department string) (*domain.Inquiry, error) {
	spec, err := OrderingFor(sortMode)
	if err != nil {
		return nil, err
	}

	now := qm.clock.Now()
	filter := domain.ClaimFilter{
		Department:  department,
		StaleBefore: qm.leases.StaleBefore(now),
	}

	inquiry, err := qm.store.FindOneAndLock(ctx, filter, spec, qm.leases.Acquire(now))
	if err != nil {
		return nil, nilIfNotFound(err)
	}
	return &inquiry, nil
}

// Release drops the lease of an inquiry whatever its holder. Releasing an
// unleased or missing inquiry is a no-op.
func (qm *QueueManager) Release(ctx context.Context, inquiryID string) error {
	if strings.TrimSpace(inquiryID) == "" {
		return errors.Wrap(constant.ErrInvalidArgument, "inquiry id is required")
	}
	_, err := qm.store.UpdateLease(ctx, inquiryID, qm.leases.Release())
	return nilIfNotFound(err)
}

// RecoverAll clears every lease in the store. It is meant for startup after
// a fleet restart; running it while other dispatchers hold fresh leases lets
// their inquiries be claimed twice.
func (qm *QueueManager) RecoverAll(ctx context.Context) (int64, error) {
	affected, err := qm.store.ClearAllLeases(ctx)
	if err != nil {
		return 0, err
	}
	qm.logger.WithContext(ctx).Infof("queue manager: recovered %d leased inquiries", affected)
	return affected, nil
}

// QueuePosition ranks the queued inquiries of a department with the same
// ordering ClaimNext uses. With InquiryID set only that inquiry's row is
// returned. Nothing is cached; each call is a fresh snapshot.
func (qm *QueueManager) QueuePosition(ctx context.Context, query domain.PositionQuery) ([]domain.QueuePosition, error) {
	spec, err := OrderingFor(query.SortMode)
	if err != nil {
		return nil, err
	}
	return qm.store.RankQueued(ctx, query.Department, query.InquiryID, spec)
}

func (qm *QueueManager) RemoveByRoomID(ctx context.Context, rid string) (int64, error) {
	if strings.TrimSpace(rid) == "" {
		return 0, errors.Wrap(constant.ErrInvalidArgument, "room id is required")
	}
	return qm.store.DeleteByRoomID(ctx, rid)
}

func (qm *QueueManager) SetPriorityForRoom(ctx context.Context, rid string, priority domain.Priority) (int64, error) {
	return qm.extension.SetPriorityForRoom(ctx, rid, priority)
}

func (qm *QueueManager) UnsetPriorityForRoom(ctx context.Context, rid string) (int64, error) {
	return qm.extension.UnsetPriorityForRoom(ctx, rid)
}

func (qm *QueueManager) SetSlaForRoom(ctx context.Context, rid string, sla domain.SLA) (int64, error) {
	return qm.extension.SetSlaForRoom(ctx, rid, sla)
}

func (qm *QueueManager) UnsetSlaForRoom(ctx context.Context, rid string) (int64, error) {
	return qm.extension.UnsetSlaForRoom(ctx, rid)
}

func (qm *QueueManager) BulkUnsetSla(ctx context.Context, rids []string) (int64, error) {
	return qm.extension.BulkUnsetSla(ctx, rids)
}

func nilIfNotFound(err error) error {
	if errors.Is(err, constant.ErrNotFound) {
		return nil
	}
	return err
}
