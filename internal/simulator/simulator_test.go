package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"arvan/inquiry-queue/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestEvents_RoomLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(Config{Departments: []string{"sales", "support"}, RemoveRatio: 1}, &recordingWriter{}, io.Discard)

	events := s.Events(3, now)
	require.Len(t, events, 3)
	assert.Equal(t, domain.RoomEventCreated, events[0].Type)
	assert.Equal(t, "support", events[0].Department)
	assert.Equal(t, domain.RoomEventMessage, events[1].Type)
	require.NotNil(t, events[1].Message)
	assert.Equal(t, domain.RoomEventRemoved, events[2].Type)
	for _, e := range events {
		assert.Equal(t, events[0].RoomID, e.RoomID)
	}

	s = New(Config{RemoveRatio: 0}, &recordingWriter{}, io.Discard)
	events = s.Events(0, now)
	assert.Len(t, events, 2)
	assert.Empty(t, events[0].Department)
}

func TestSend_KeysByRoom(t *testing.T) {
	w := &recordingWriter{}
	s := New(Config{}, w, io.Discard)

	events := s.Events(1, time.Now().UTC())
	require.NoError(t, s.Send(context.Background(), events))

	require.Len(t, w.msgs, len(events))
	for _, m := range w.msgs {
		assert.Equal(t, events[0].RoomID, string(m.Key))
		var decoded domain.RoomEvent
		require.NoError(t, json.Unmarshal(m.Value, &decoded))
		assert.Equal(t, events[0].RoomID, decoded.RoomID)
	}

	report := s.Report()
	assert.Equal(t, int64(1), report.Total)
	assert.Equal(t, int64(1), report.Success)
	assert.LessOrEqual(t, report.MinLatency, report.MaxLatency)
}

func TestSend_CountsFailures(t *testing.T) {
	s := New(Config{}, &recordingWriter{err: errors.New("broker down")}, io.Discard)

	err := s.Send(context.Background(), s.Events(0, time.Now().UTC()))
	require.Error(t, err)
	assert.Equal(t, int64(1), s.Report().Failed)
}

func TestRun_SendsEveryRoom(t *testing.T) {
	w := &recordingWriter{}
	s := New(Config{Rooms: 5, TargetRPS: 500, Duration: 5 * time.Second}, w, io.Discard)

	report := s.Run(context.Background())
	assert.Equal(t, int64(5), report.Total)
	assert.Equal(t, int64(5), report.Success)
	assert.Len(t, w.msgs, 10)
}
