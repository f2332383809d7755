// Package daemon provides the long-running background cash monitor
// service. It refreshes the coordinator on an interval, forces a full
// re-forecast at midnight (the forecast anchors on "today"), and
// serves state over a localhost HTTP API with an SSE stream.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/lifeline/internal/app"
	"github.com/theirongolddev/lifeline/internal/forecast"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
}

// Snapshot is a compact cash state for status/event payloads. Money
// fields are decimal strings so clients never touch floats.
type Snapshot struct {
	At              time.Time      `json:"at"`
	TotalBalance    string         `json:"total_balance"`
	DailyAverage    string         `json:"daily_average"`
	DailyAllowance  string         `json:"daily_allowance"`
	SafetyLevel     forecast.Level `json:"safety_level"`
	DaysUntilPayday int            `json:"days_until_payday"`
	Accounts        int            `json:"accounts"`
	Rules           int            `json:"rules"`
	LandingDate     *time.Time     `json:"landing_date,omitempty"`
	LandingBalance  string         `json:"landing_balance,omitempty"`
}

// Delta captures what changed between polls.
type Delta struct {
	Balance      string         `json:"balance,omitempty"`
	Allowance    string         `json:"allowance,omitempty"`
	SafetyBefore forecast.Level `json:"safety_before,omitempty"`
	SafetyAfter  forecast.Level `json:"safety_after,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Balance == "" && d.Allowance == "" && d.SafetyBefore == d.SafetyAfter
}

// Event is emitted whenever the cash snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg   Config
	coord *app.Coordinator
	log   zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service wrapping the coordinator.
func New(coord *app.Coordinator, cfg Config, log zerolog.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7468"
	}

	return &Service{
		cfg:       cfg,
		coord:     coord,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/status", s.handleStatus)
	r.Get("/v1/snapshot", s.handleSnapshot)
	r.Get("/v1/events", s.handleEvents)
	r.Get("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// The forecast is anchored on "today", so day boundaries shift the
	// whole curve even with no new data.
	sched := cron.New()
	if _, err := sched.AddFunc("0 0 * * *", func() {
		s.log.Info().Msg("midnight re-forecast")
		s.pollOnce()
	}); err != nil {
		return fmt.Errorf("scheduling midnight refresh: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	s.log.Info().Str("addr", s.cfg.Addr).Dur("interval", s.cfg.Interval).Msg("daemon started")

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce() {
	now := time.Now()
	if err := s.coord.Refresh(); err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	snap := snapshotFromState(s.coord.Snapshot(), now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      "snapshot",
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else {
		delta := diffSnapshots(prev, snap)
		if !delta.isZero() {
			s.nextEventID++
			ev = Event{
				ID:        s.nextEventID,
				Type:      "cash_delta",
				Timestamp: now,
				Snapshot:  snap,
				Delta:     delta,
			}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromState(st app.Snapshot, at time.Time) Snapshot {
	snap := Snapshot{
		At:              at,
		TotalBalance:    st.TotalBalance.StringFixed(2),
		DailyAverage:    st.DailyExpenseAverage.StringFixed(2),
		DailyAllowance:  st.DailyAllowance.StringFixed(2),
		SafetyLevel:     st.SafetyLevel,
		DaysUntilPayday: st.DaysUntilPayday,
		Accounts:        len(st.Accounts),
		Rules:           len(st.Rules),
	}
	if st.Landing != nil {
		d := st.Landing.Date
		snap.LandingDate = &d
		snap.LandingBalance = st.Landing.Balance.StringFixed(2)
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	var d Delta
	if prev.TotalBalance != curr.TotalBalance {
		d.Balance = decimalDiff(prev.TotalBalance, curr.TotalBalance)
	}
	if prev.DailyAllowance != curr.DailyAllowance {
		d.Allowance = decimalDiff(prev.DailyAllowance, curr.DailyAllowance)
	}
	if prev.SafetyLevel != curr.SafetyLevel {
		d.SafetyBefore = prev.SafetyLevel
		d.SafetyAfter = curr.SafetyLevel
	}
	return d
}

func decimalDiff(prev, curr string) string {
	p, err1 := decimal.NewFromString(prev)
	c, err2 := decimal.NewFromString(curr)
	if err1 != nil || err2 != nil {
		return ""
	}
	return c.Sub(p).StringFixed(2)
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	snap := s.snapshot
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	s.mu.RLock()
	current := Event{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Snapshot:  s.snapshot,
	}
	s.mu.RUnlock()
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
