package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"
	"arvan/inquiry-queue/internal/repository/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const claimablePredicate = "(locked IS NULL OR locked = ? OR (locked = ? AND locked_at <= ?))"

var sortColumns = map[domain.SortKey]string{
	domain.SortKeyTimestamp:            "ts",
	domain.SortKeyPriorityWeight:       "priority_weight",
	domain.SortKeyEstimatedWaitingTime: "estimated_waiting_time_queue",
	domain.SortKeyID:                   "id",
}

type inquiryRepository struct {
	db       *gorm.DB
	postgres bool
}

func NewInquiryRepository(db *gorm.DB) *inquiryRepository {
	return &inquiryRepository{
		db:       db,
		postgres: db.Dialector.Name() == "postgres",
	}
}

func (ir *inquiryRepository) Create(ctx context.Context, inquiry domain.Inquiry) error {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	row := entity.InquiryFromDomain(inquiry)
	if err := gorm.G[entity.Inquiry](ir.db).Create(ctx, &row); err != nil {
		return classify(err, "create inquiry")
	}
	return nil
}

func (ir *inquiryRepository) FindOneQueuedByRoomID(ctx context.Context, rid string) (domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	row, err := gorm.G[entity.Inquiry](ir.db).
		Where("rid = ? AND status = ?", rid, string(domain.InquiryStatusQueued)).
		First(ctx)
	if err != nil {
		return domain.Inquiry{}, classify(err, "find queued inquiry by room")
	}
	return row.ToDomain(), nil
}

func (ir *inquiryRepository) FindOneByRoomID(ctx context.Context, rid string) (domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	row, err := gorm.G[entity.Inquiry](ir.db).
		Where("rid = ?", rid).
		Order("ts DESC").
		First(ctx)
	if err != nil {
		return domain.Inquiry{}, classify(err, "find inquiry by room")
	}
	return row.ToDomain(), nil
}

func (ir *inquiryRepository) FindByID(ctx context.Context, id string) (domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	row, err := gorm.G[entity.Inquiry](ir.db).Where("id = ?", id).First(ctx)
	if err != nil {
		return domain.Inquiry{}, classify(err, "find inquiry")
	}
	return row.ToDomain(), nil
}

func (ir *inquiryRepository) FindDistinctQueuedDepartments(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	departments := make([]string, 0)
	err := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("status = ? AND department IS NOT NULL AND department <> ?", string(domain.InquiryStatusQueued), "").
		Distinct().
		Order("department").
		Pluck("department", &departments).Error
	if err != nil {
		return nil, classify(err, "distinct queued departments")
	}
	return departments, nil
}

func (ir *inquiryRepository) UpdateDepartment(ctx context.Context, id, department string) (domain.Inquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	var value any
	if department != "" {
		value = department
	}

	var updated entity.Inquiry
	err := ir.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Inquiry{}).
			Where("id = ?", id).
			Updates(map[string]any{"department": value})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return domain.Inquiry{}, classify(err, "update inquiry department")
	}
	return updated.ToDomain(), nil
}

func (ir *inquiryRepository) UpdateLastMessageByRoomID(ctx context.Context, rid string, message domain.Message) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	raw, err := json.Marshal(message)
	if err != nil {
		return 0, errors.Wrap(constant.ErrInvalidArgument, err.Error())
	}

	res := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("rid = ?", rid).
		Update("last_message", string(raw))
	if res.Error != nil {
		return 0, classify(res.Error, "update inquiry last message")
	}
	return res.RowsAffected, nil
}

// FindOneAndLock applies lease to the first claimable queued inquiry in
// sort order and returns it. The selection and the write are one statement.
func (ir *inquiryRepository) FindOneAndLock(
	ctx context.Context,
	filter domain.ClaimFilter,
	spec domain.SortSpec,
	lease domain.Lease,
) (domain.Inquiry, error) {
	order, err := orderClause(spec)
	if err != nil {
		return domain.Inquiry{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	var (
		q    strings.Builder
		args []any
	)
	q.WriteString("UPDATE " + constant.InquiryTableName + " SET locked = ?, locked_at = ?, updated_at = ?")
	args = append(args, lease.Locked, lease.LockedAt, time.Now().UTC())

	q.WriteString(" WHERE id = (SELECT id FROM " + constant.InquiryTableName + " WHERE status = ?")
	args = append(args, string(domain.InquiryStatusQueued))
	if filter.Department != "" {
		q.WriteString(" AND department = ?")
		args = append(args, filter.Department)
	}
	q.WriteString(" AND " + claimablePredicate)
	args = append(args, false, true, filter.StaleBefore)
	q.WriteString(" ORDER BY " + order + " LIMIT 1")
	if ir.postgres {
		q.WriteString(" FOR UPDATE SKIP LOCKED")
	}
	q.WriteString(")")

	// under read committed the outer row is re-evaluated after the
	// sub-select, so the predicate is repeated here.
	q.WriteString(" AND status = ? AND " + claimablePredicate)
	args = append(args, string(domain.InquiryStatusQueued), false, true, filter.StaleBefore)

	if ir.postgres {
		q.WriteString(" RETURNING *")
		var rows []entity.Inquiry
		if err := ir.db.WithContext(ctx).Raw(q.String(), args...).Scan(&rows).Error; err != nil {
			return domain.Inquiry{}, classify(err, "claim inquiry")
		}
		if len(rows) == 0 {
			return domain.Inquiry{}, constant.ErrNotFound
		}
		return rows[0].ToDomain(), nil
	}

	// sqlite reports no declared types for RETURNING columns, so only the
	// id comes back and the claimed row is read by key.
	q.WriteString(" RETURNING id")
	var ids []string
	if err := ir.db.WithContext(ctx).Raw(q.String(), args...).Scan(&ids).Error; err != nil {
		return domain.Inquiry{}, classify(err, "claim inquiry")
	}
	if len(ids) == 0 {
		return domain.Inquiry{}, constant.ErrNotFound
	}
	row, err := gorm.G[entity.Inquiry](ir.db).Where("id = ?", ids[0]).First(ctx)
	if err != nil {
		return domain.Inquiry{}, classify(err, "read claimed inquiry")
	}
	return row.ToDomain(), nil
}

func (ir *inquiryRepository) UpdateLease(ctx context.Context, id string, lease domain.Lease) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	res := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]any{"locked": lease.Locked, "locked_at": lease.LockedAt})
	if res.Error != nil {
		return 0, classify(res.Error, "update inquiry lease")
	}
	return res.RowsAffected, nil
}

func (ir *inquiryRepository) ClearAllLeases(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	res := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("locked IS NOT NULL OR locked_at IS NOT NULL").
		Updates(map[string]any{"locked": nil, "locked_at": nil})
	if res.Error != nil {
		return 0, classify(res.Error, "clear inquiry leases")
	}
	return res.RowsAffected, nil
}

// RankQueued numbers the queued inquiries of a department (all departments
// when empty) in sort order starting at zero. When inquiryID is set only
// that inquiry's row is returned, ranked against the whole queue.
func (ir *inquiryRepository) RankQueued(
	ctx context.Context,
	department, inquiryID string,
	spec domain.SortSpec,
) ([]domain.QueuePosition, error) {
	order, err := orderClause(spec)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	var (
		q    strings.Builder
		args []any
	)
	q.WriteString("SELECT id, rid, name, ts, status, department, position FROM (")
	q.WriteString("SELECT id, rid, name, ts, status, department, ROW_NUMBER() OVER (ORDER BY " + order + ") - 1 AS position")
	q.WriteString(" FROM " + constant.InquiryTableName + " WHERE status = ?")
	args = append(args, string(domain.InquiryStatusQueued))
	if department != "" {
		q.WriteString(" AND department = ?")
		args = append(args, department)
	}
	q.WriteString(") ranked")
	if inquiryID != "" {
		q.WriteString(" WHERE id = ?")
		args = append(args, inquiryID)
	}
	q.WriteString(" ORDER BY position")

	var rows []entity.RankedInquiry
	if err := ir.db.WithContext(ctx).Raw(q.String(), args...).Scan(&rows).Error; err != nil {
		return nil, classify(err, "rank queued inquiries")
	}

	positions := make([]domain.QueuePosition, 0, len(rows))
	for _, row := range rows {
		positions = append(positions, row.ToDomain())
	}
	return positions, nil
}

func (ir *inquiryRepository) DeleteByRoomID(ctx context.Context, rid string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	affected, err := gorm.G[entity.Inquiry](ir.db).Where("rid = ?", rid).Delete(ctx)
	if err != nil {
		return 0, classify(err, "delete inquiry by room")
	}
	return int64(affected), nil
}

// MarkTaken moves a queued inquiry to taken and drops its lease.
func (ir *inquiryRepository) MarkTaken(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	res := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("id = ? AND status = ?", id, string(domain.InquiryStatusQueued)).
		Updates(map[string]any{
			"status":    string(domain.InquiryStatusTaken),
			"locked":    nil,
			"locked_at": nil,
		})
	if res.Error != nil {
		return 0, classify(res.Error, "mark inquiry taken")
	}
	return res.RowsAffected, nil
}

func (ir *inquiryRepository) SetPriorityByRoomID(ctx context.Context, rid string, priority domain.Priority) (int64, error) {
	return ir.updateByRoom(ctx, "set inquiry priority", []string{rid}, map[string]any{
		"priority_id":     priority.ID,
		"priority_weight": priority.Weight,
	})
}

func (ir *inquiryRepository) UnsetPriorityByRoomID(ctx context.Context, rid string) (int64, error) {
	return ir.updateByRoom(ctx, "unset inquiry priority", []string{rid}, map[string]any{
		"priority_id":     nil,
		"priority_weight": constant.DefaultPriorityWeight,
	})
}

func (ir *inquiryRepository) SetSlaByRoomID(ctx context.Context, rid string, sla domain.SLA) (int64, error) {
	return ir.updateByRoom(ctx, "set inquiry sla", []string{rid}, map[string]any{
		"sla_id":                       sla.ID,
		"estimated_waiting_time_queue": sla.EstimatedWaitingTimeQueue,
	})
}

func (ir *inquiryRepository) UnsetSlaByRoomIDs(ctx context.Context, rids []string) (int64, error) {
	if len(rids) == 0 {
		return 0, nil
	}
	return ir.updateByRoom(ctx, "unset inquiry sla", rids, map[string]any{
		"sla_id":                       nil,
		"estimated_waiting_time_queue": constant.DefaultEstimatedWaitingTimeQueue,
	})
}

func (ir *inquiryRepository) updateByRoom(ctx context.Context, op string, rids []string, values map[string]any) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.DBTxTimeout)
	defer cancel()

	res := ir.db.WithContext(ctx).
		Model(&entity.Inquiry{}).
		Where("rid IN ?", rids).
		Updates(values)
	if res.Error != nil {
		return 0, classify(res.Error, op)
	}
	return res.RowsAffected, nil
}

func orderClause(spec domain.SortSpec) (string, error) {
	if len(spec) == 0 {
		return "", errors.Wrap(constant.ErrInvalidArgument, "empty sort spec")
	}
	parts := make([]string, 0, len(spec))
	for _, f := range spec {
		col, ok := sortColumns[f.Key]
		if !ok {
			return "", errors.Wrapf(constant.ErrInvalidArgument, "unknown sort key %d", f.Key)
		}
		if f.Desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	return strings.Join(parts, ", "), nil
}

func classify(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return constant.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.Wrap(constant.ErrAlreadyQueued, op)
	default:
		return errors.Wrapf(constant.ErrUnavailable, "%s: %v", op, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
