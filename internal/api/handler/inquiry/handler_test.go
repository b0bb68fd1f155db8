package inquiry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"arvan/inquiry-queue/internal/api"
	"arvan/inquiry-queue/internal/api/handler/inquiry"
	"arvan/inquiry-queue/internal/config"
	"arvan/inquiry-queue/internal/constant"
	"arvan/inquiry-queue/internal/domain"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	positions   []domain.QueuePosition
	lastQuery   domain.PositionQuery
	inquiry     *domain.Inquiry
	released    string
	recovered   int64
	removed     int64
	departments []string
	extErr      error
	err         error
}

func (f *fakeQueue) QueuePosition(_ context.Context, q domain.PositionQuery) ([]domain.QueuePosition, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	if q.InquiryID == "" {
		return f.positions, nil
	}
	for _, p := range f.positions {
		if p.ID == q.InquiryID {
			return []domain.QueuePosition{p}, nil
		}
	}
	return nil, nil
}

func (f *fakeQueue) GetDistinctQueuedDepartments(context.Context) ([]string, error) {
	return f.departments, f.err
}

func (f *fakeQueue) FindByRoomID(context.Context, string) (*domain.Inquiry, error) {
	return f.inquiry, f.err
}

func (f *fakeQueue) FindByID(_ context.Context, id string) (*domain.Inquiry, error) {
	if f.err != nil || f.inquiry == nil || f.inquiry.ID != id {
		return nil, f.err
	}
	return f.inquiry, nil
}

func (f *fakeQueue) FindOneQueuedByRoomID(context.Context, string) (*domain.Inquiry, error) {
	return f.inquiry, f.err
}

func (f *fakeQueue) SetDepartment(_ context.Context, _ string, department string) (*domain.Inquiry, error) {
	if f.inquiry == nil || f.err != nil {
		return nil, f.err
	}
	f.inquiry.Department = &department
	return f.inquiry, nil
}

func (f *fakeQueue) Release(_ context.Context, id string) error {
	f.released = id
	return f.err
}

func (f *fakeQueue) RecoverAll(context.Context) (int64, error) {
	return f.recovered, f.err
}

func (f *fakeQueue) RemoveByRoomID(context.Context, string) (int64, error) {
	return f.removed, f.err
}

func (f *fakeQueue) SetPriorityForRoom(context.Context, string, domain.Priority) (int64, error) {
	return 1, f.extErr
}

func (f *fakeQueue) UnsetPriorityForRoom(context.Context, string) (int64, error) {
	return 1, f.extErr
}

func (f *fakeQueue) SetSlaForRoom(context.Context, string, domain.SLA) (int64, error) {
	return 1, f.extErr
}

func (f *fakeQueue) UnsetSlaForRoom(context.Context, string) (int64, error) {
	return 1, f.extErr
}

func (f *fakeQueue) BulkUnsetSla(_ context.Context, rids []string) (int64, error) {
	return int64(len(rids)), f.extErr
}

type fakeSettings struct {
	mode domain.SortMode
}

func (f *fakeSettings) SortMode(context.Context) domain.SortMode { return f.mode }

func (f *fakeSettings) SetSortMode(_ context.Context, raw string) (domain.SortMode, error) {
	switch strings.ToLower(raw) {
	case "priority":
		f.mode = domain.SortModePriority
		return f.mode, nil
	default:
		return "", errors.Wrapf(constant.ErrInvalidArgument, "unknown sort mode %q", raw)
	}
}

type fakePublisher struct {
	events []domain.QueueEvent
}

func (f *fakePublisher) Publish(_ context.Context, e domain.QueueEvent) {
	f.events = append(f.events, e)
}

func setup(t *testing.T, q *fakeQueue) (http.Handler, *fakeSettings, *fakePublisher) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(testWriter{t})

	settings := &fakeSettings{mode: domain.SortModeTimestamp}
	pub := &fakePublisher{}
	server := api.New(config.TestEnv, logger)
	server.SetupAPIRoutes(inquiry.New(q, settings, pub, logger))
	return server.Handler(), settings, pub
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func queuedPositions(n int) []domain.QueuePosition {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.QueuePosition, n)
	for i := range out {
		out[i] = domain.QueuePosition{
			ID:       string(rune('a' + i)),
			RoomID:   "room-" + string(rune('a'+i)),
			Ts:       t0.Add(time.Duration(i) * time.Second),
			Status:   domain.InquiryStatusQueued,
			Position: int64(i),
		}
	}
	return out
}

func TestHealthz(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{})
	rec := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQueue_PaginatesRanking(t *testing.T) {
	q := &fakeQueue{positions: queuedPositions(5)}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodGet, "/v1/queue?department=sales&page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data     []domain.QueuePosition `json:"data"`
		Total    int                    `json:"total"`
		SortMode domain.SortMode        `json:"sort_mode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Total)
	assert.Equal(t, domain.SortModeTimestamp, body.SortMode)
	require.Len(t, body.Data, 2)
	assert.Equal(t, int64(2), body.Data[0].Position)
	assert.Equal(t, int64(3), body.Data[1].Position)
	assert.Equal(t, "sales", q.lastQuery.Department)
}

func TestGetQueue_SortModeQuery(t *testing.T) {
	q := &fakeQueue{}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodGet, "/v1/queue?sort_mode=slas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SortModeSLAs, q.lastQuery.SortMode)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = do(h, http.MethodGet, "/v1/queue?sort_mode=random", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetQueue_StoreUnavailable(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{err: errors.Wrap(constant.ErrUnavailable, "connection refused")})
	rec := do(h, http.MethodGet, "/v1/queue", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetPosition(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{positions: queuedPositions(3)})

	rec := do(h, http.MethodGet, "/v1/queue/inquiries/c/position", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var pos domain.QueuePosition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	assert.Equal(t, int64(2), pos.Position)

	rec = do(h, http.MethodGet, "/v1/queue/inquiries/zzz/position", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDepartments(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{})
	rec := do(h, http.MethodGet, "/v1/queue/departments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestGetByRoom(t *testing.T) {
	q := &fakeQueue{}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodGet, "/v1/rooms/r1/inquiry", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	q.inquiry = &domain.Inquiry{ID: "i1", RoomID: "r1", Status: domain.InquiryStatusQueued}
	rec = do(h, http.MethodGet, "/v1/rooms/r1/inquiry?queued=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rid":"r1"`)
}

func TestGetInquiry(t *testing.T) {
	q := &fakeQueue{inquiry: &domain.Inquiry{ID: "i1", RoomID: "r1", Status: domain.InquiryStatusTaken}}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodGet, "/v1/queue/inquiries/i1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"taken"`)

	rec = do(h, http.MethodGet, "/v1/queue/inquiries/i2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQueue_PageBeyondEndIsEmpty(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{positions: queuedPositions(3)})

	rec := do(h, http.MethodGet, "/v1/queue?page=9223372036854775807&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data  []domain.QueuePosition `json:"data"`
		Total int                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Data)
	assert.Equal(t, 3, body.Total)
}

func TestRemoveByRoom_PublishesOnlyWhenRemoved(t *testing.T) {
	q := &fakeQueue{}
	h, _, pub := setup(t, q)

	rec := do(h, http.MethodDelete, "/v1/rooms/r1/inquiry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pub.events)

	q.removed = 1
	rec = do(h, http.MethodDelete, "/v1/rooms/r1/inquiry", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.QueueEventRemoved, pub.events[0].Type)
	assert.Equal(t, "r1", pub.events[0].RoomID)
}

func TestSetDepartment(t *testing.T) {
	q := &fakeQueue{inquiry: &domain.Inquiry{ID: "i1"}}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodPut, "/v1/queue/inquiries/i1/department", `{"department":"support"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"department":"support"`)

	rec = do(h, http.MethodPut, "/v1/queue/inquiries/i1/department", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReleaseAndRecover(t *testing.T) {
	q := &fakeQueue{recovered: 3}
	h, _, pub := setup(t, q)

	rec := do(h, http.MethodPost, "/v1/queue/inquiries/i9/release", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "i9", q.released)

	rec = do(h, http.MethodPost, "/v1/queue/recover", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"affected":3}`, rec.Body.String())

	require.Len(t, pub.events, 2)
	assert.Equal(t, domain.QueueEventReleased, pub.events[0].Type)
	assert.Equal(t, domain.QueueEventRecovered, pub.events[1].Type)
}

func TestExtensionEndpoints(t *testing.T) {
	q := &fakeQueue{}
	h, _, _ := setup(t, q)

	rec := do(h, http.MethodPut, "/v1/rooms/r1/priority", `{"id":"p1","weight":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/v1/queue/sla/bulk-unset", `{"room_ids":["a","b"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"affected":2}`, rec.Body.String())

	rec = do(h, http.MethodPost, "/v1/queue/sla/bulk-unset", `{"room_ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	q.extErr = errors.Wrap(constant.ErrUnsupported, "priority")
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPut, "/v1/rooms/r1/priority", `{"id":"p1","weight":2}`},
		{http.MethodDelete, "/v1/rooms/r1/priority", ""},
		{http.MethodPut, "/v1/rooms/r1/sla", `{"id":"s1","estimated_waiting_time_queue":30}`},
		{http.MethodDelete, "/v1/rooms/r1/sla", ""},
	} {
		rec = do(h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotImplemented, rec.Code, tc.method+" "+tc.path)
	}
}

func TestSortModeSetting(t *testing.T) {
	h, settings, _ := setup(t, &fakeQueue{})

	rec := do(h, http.MethodGet, "/v1/settings/sort-mode", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sort_mode":"Timestamp"}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/v1/settings/sort-mode", `{"sort_mode":"priority"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SortModePriority, settings.mode)

	rec = do(h, http.MethodPut, "/v1/settings/sort-mode", `{"sort_mode":"fastest"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	h, _, _ := setup(t, &fakeQueue{})
	rec := do(h, http.MethodGet, "/v1/queue/departments", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
