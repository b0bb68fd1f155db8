package repository

import (
	"context"
	"testing"
	"time"

	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (*inquiryRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	return NewInquiryRepository(db), mock
}

func TestInquiryRepository_PostgresClaimSkipsLockedRows(t *testing.T) {
	repo, mock := newMockRepository(t)

	lockedAt := time.Date(2024, 5, 1, 9, 1, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "rid", "status", "ts", "locked", "locked_at"}).
		AddRow("a", "room-a", "queued", base, true, lockedAt)

	mock.ExpectQuery(
		`UPDATE livechat_inquiry SET locked = \$1, locked_at = \$2, updated_at = \$3 `+
			`WHERE id = \(SELECT id FROM livechat_inquiry WHERE status = \$4 AND department = \$5 `+
			`AND \(locked IS NULL OR locked = \$6 OR \(locked = \$7 AND locked_at <= \$8\)\) `+
			`ORDER BY ts ASC, id ASC LIMIT 1 FOR UPDATE SKIP LOCKED\) `+
			`AND status = \$9 AND .* RETURNING \*`,
	).
		WithArgs(true, sqlmock.AnyArg(), sqlmock.AnyArg(), "queued", "sales", false, true, sqlmock.AnyArg(), "queued", false, true, sqlmock.AnyArg()).
		WillReturnRows(rows)

	filter := domain.ClaimFilter{Department: "sales", StaleBefore: lockedAt.Add(-5 * time.Second)}
	got, err := repo.FindOneAndLock(context.Background(), filter, fifo, acquireLease)
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	require.NotNil(t, got.LockedAt)
	assert.Equal(t, lockedAt, *got.LockedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_PostgresClaimNothingClaimable(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`UPDATE livechat_inquiry SET .* ORDER BY priority_weight ASC, ts ASC, id ASC LIMIT 1 FOR UPDATE SKIP LOCKED\) .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	byPriority := domain.SortSpec{{Key: domain.SortKeyPriorityWeight}, {Key: domain.SortKeyTimestamp}, {Key: domain.SortKeyID}}
	_, err := repo.FindOneAndLock(context.Background(), claimAnyFilter, byPriority, acquireLease)
	assert.ErrorIs(t, err, constant.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_PostgresFailureIsUnavailable(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`UPDATE livechat_inquiry SET`).WillReturnError(assert.AnError)

	_, err := repo.FindOneAndLock(context.Background(), claimAnyFilter, fifo, acquireLease)
	assert.ErrorIs(t, err, constant.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository_PostgresRankUsesWindow(t *testing.T) {
	repo, mock := newMockRepository(t)

	rows := sqlmock.NewRows([]string{"id", "rid", "name", "ts", "status", "department", "position"}).
		AddRow("b", "room-b", "visitor b", base, "queued", nil, int64(3))

	mock.ExpectQuery(
		`SELECT id, rid, name, ts, status, department, position FROM \(`+
			`SELECT id, rid, name, ts, status, department, ROW_NUMBER\(\) OVER \(ORDER BY ts ASC, id ASC\) - 1 AS position `+
			`FROM livechat_inquiry WHERE status = \$1\) ranked WHERE id = \$2 ORDER BY position`,
	).
		WithArgs("queued", "b").
		WillReturnRows(rows)

	got, err := repo.RankQueued(context.Background(), "", "b", fifo)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Position)
	assert.Nil(t, got[0].Department)
	assert.NoError(t, mock.ExpectationsWereMet())
}
