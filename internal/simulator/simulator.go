// Package simulator drives the queue with synthetic room traffic published
// on the room events topic.
package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"arvan/inquiry-queue/internal/domain"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Config struct {
	Rooms       int
	Departments []string
	TargetRPS   int
	Duration    time.Duration
	// RemoveRatio is the share of rooms closed right after they were opened.
	RemoveRatio float64
}

type Stats struct {
	total        atomic.Int64
	success      atomic.Int64
	failed       atomic.Int64
	totalLatency atomic.Int64
	minLatency   atomic.Int64
	maxLatency   atomic.Int64
}

type Report struct {
	Total, Success, Failed int64
	AvgLatency             time.Duration
	MinLatency             time.Duration
	MaxLatency             time.Duration
}

type Simulator struct {
	cfg    Config
	writer messageWriter
	out    io.Writer
	rng    *rand.Rand
	rngMu  sync.Mutex
	stats  Stats
}

func New(cfg Config, writer messageWriter, out io.Writer) *Simulator {
	if cfg.Rooms <= 0 {
		cfg.Rooms = 1
	}
	if cfg.TargetRPS <= 0 {
		cfg.TargetRPS = 1
	}
	s := &Simulator{
		cfg:    cfg,
		writer: writer,
		out:    out,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	s.stats.minLatency.Store(math.MaxInt64)
	return s
}

// Events builds the traffic of one room: it is opened, gets a first message
// and, for a RemoveRatio share of rooms, is removed again.
func (s *Simulator) Events(n int, now time.Time) []domain.RoomEvent {
	rid := fmt.Sprintf("sim-%d-%s", n, uuid.NewString()[:8])

	var department string
	if len(s.cfg.Departments) > 0 {
		department = s.cfg.Departments[n%len(s.cfg.Departments)]
	}
	visitor := domain.Visitor{
		ID:       uuid.NewString(),
		Token:    uuid.NewString(),
		Username: fmt.Sprintf("guest-%d", n),
	}

	events := []domain.RoomEvent{
		{
			Type:       domain.RoomEventCreated,
			RoomID:     rid,
			Name:       visitor.Username,
			Department: department,
			Source:     "simulator",
			Visitor:    visitor,
			Ts:         now,
		},
		{
			Type:   domain.RoomEventMessage,
			RoomID: rid,
			Message: &domain.Message{
				ID:       uuid.NewString(),
				Msg:      fmt.Sprintf("hello from room %d", n),
				UserID:   visitor.ID,
				Username: visitor.Username,
				Ts:       now,
			},
			Ts: now,
		},
	}

	if s.roll() < s.cfg.RemoveRatio {
		events = append(events, domain.RoomEvent{
			Type:   domain.RoomEventRemoved,
			RoomID: rid,
			Ts:     now,
		})
	}
	return events
}

func (s *Simulator) roll() float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Float64()
}

// Send publishes the events of one room, keyed by room id so they stay
// ordered on one partition.
func (s *Simulator) Send(ctx context.Context, events []domain.RoomEvent) error {
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return errors.Wrap(err, "marshal room event")
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.RoomID),
			Value: payload,
			Time:  e.Ts,
		})
	}

	s.stats.total.Add(1)
	start := time.Now()
	err := s.writer.WriteMessages(ctx, msgs...)
	s.observe(time.Since(start))

	if err != nil {
		s.stats.failed.Add(1)
		return errors.Wrap(err, "write room events")
	}
	s.stats.success.Add(1)
	return nil
}

func (s *Simulator) observe(latency time.Duration) {
	l := latency.Microseconds()
	s.stats.totalLatency.Add(l)
	for {
		current := s.stats.minLatency.Load()
		if l >= current || s.stats.minLatency.CompareAndSwap(current, l) {
			break
		}
	}
	for {
		current := s.stats.maxLatency.Load()
		if l <= current || s.stats.maxLatency.CompareAndSwap(current, l) {
			break
		}
	}
}

// Run opens rooms at TargetRPS until Rooms were sent, Duration elapsed or
// ctx is done.
func (s *Simulator) Run(ctx context.Context) Report {
	fmt.Fprintf(s.out, "simulator: %d rooms at %d rooms/s over %v\n", s.cfg.Rooms, s.cfg.TargetRPS, s.cfg.Duration)

	runCtx := ctx
	if s.cfg.Duration > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.Duration)
		defer cancel()
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TargetRPS))
	defer ticker.Stop()

	var wg sync.WaitGroup
	for n := 0; n < s.cfg.Rooms; n++ {
		select {
		case <-runCtx.Done():
			wg.Wait()
			return s.Report()
		case <-ticker.C:
		}

		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := s.Send(runCtx, s.Events(n, time.Now().UTC())); err != nil {
				fmt.Fprintf(s.out, "simulator: room %d: %v\n", n, err)
			}
		}(n)
	}
	wg.Wait()

	report := s.Report()
	fmt.Fprintf(s.out, "simulator: sent=%d ok=%d failed=%d latency avg=%v min=%v max=%v\n",
		report.Total, report.Success, report.Failed, report.AvgLatency, report.MinLatency, report.MaxLatency)
	return report
}

func (s *Simulator) Report() Report {
	r := Report{
		Total:   s.stats.total.Load(),
		Success: s.stats.success.Load(),
		Failed:  s.stats.failed.Load(),
	}
	if r.Total > 0 {
		r.AvgLatency = time.Duration(s.stats.totalLatency.Load()/r.Total) * time.Microsecond
		r.MinLatency = time.Duration(s.stats.minLatency.Load()) * time.Microsecond
		r.MaxLatency = time.Duration(s.stats.maxLatency.Load()) * time.Microsecond
	}
	return r
}
