package logging

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultInboxSize = 512
	minLaneBuffer    = 32
	maxLaneBuffer    = 1024
	maxRetryShift    = 5
)

// Clock stamps events that arrive without a time.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sink persists or forwards simulation events: combat hits, wave
// transitions, pickups, observer traffic. Each sink is fed by its own lane
// goroutine so a slow store or network sink never stalls the tick.
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

// RouterStats counts events across the router. Dropped covers the shared
// inbox; SinkDropped covers per-sink backlogs.
type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
	Filtered     uint64
	SinkDropped  map[string]uint64
}

// Router fans simulation events out to sinks. Publish never blocks the
// simulation: when the inbox is full the event is counted and discarded.
type Router struct {
	inbox    chan Event
	lanes    []*lane
	clock    Clock
	log      zerolog.Logger
	minimum  Severity
	fields   map[string]any
	warnGap  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	closed   atomic.Bool

	accepted atomic.Uint64
	dropped  atomic.Uint64
	filtered atomic.Uint64
	warnAt   atomic.Int64
}

// NewRouter starts the dispatcher and one lane per sink. Sink failures and
// drops are reported on log.
func NewRouter(clock Clock, cfg Config, log zerolog.Logger, namedSinks []NamedSink) (*Router, error) {
	if clock == nil {
		clock = SystemClock{}
	}
	inboxSize := cfg.BufferSize
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}
	warnGap := cfg.DropWarnInterval
	if warnGap <= 0 {
		warnGap = 5 * time.Second
	}
	r := &Router{
		inbox:   make(chan Event, inboxSize),
		clock:   clock,
		log:     log.With().Str("component", "events").Logger(),
		minimum: cfg.MinimumSeverity,
		fields:  cfg.CloneFields(),
		warnGap: warnGap,
		stop:    make(chan struct{}),
	}

	laneSize := min(max(inboxSize, minLaneBuffer), maxLaneBuffer)
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.lanes = append(r.lanes, newLane(named.Name, named.Sink, laneSize, r.log))
	}

	r.wg.Add(1 + len(r.lanes))
	go r.dispatch()
	for _, l := range r.lanes {
		go func(l *lane) {
			defer r.wg.Done()
			l.run()
		}(l)
	}
	return r, nil
}

func (r *Router) dispatch() {
	defer r.wg.Done()
	defer func() {
		for _, l := range r.lanes {
			close(l.events)
		}
	}()
	for {
		select {
		case event := <-r.inbox:
			r.route(event)
		case <-r.stop:
			for {
				select {
				case event := <-r.inbox:
					r.route(event)
				default:
					return
				}
			}
		}
	}
}

// route stamps an accepted event and hands a private copy to every lane.
func (r *Router) route(event Event) {
	if event.Severity < r.minimum {
		r.filtered.Add(1)
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = withFields(event, r.fields)
	r.accepted.Add(1)
	for _, l := range r.lanes {
		l.offer(cloneForFields(event))
	}
}

func withFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	event = cloneForFields(event)
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	return event
}

// Publish queues event for delivery. Untyped events and events published
// after Close are ignored.
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.inbox <- event:
	default:
		r.overflow(event)
	}
}

func (r *Router) overflow(event Event) {
	total := r.dropped.Add(1)
	now := time.Now().UnixNano()
	due := r.warnAt.Load()
	if now < due || !r.warnAt.CompareAndSwap(due, now+r.warnGap.Nanoseconds()) {
		return
	}
	r.log.Warn().
		Str("type", string(event.Type)).
		Uint64("tick", event.Tick).
		Uint64("dropped", total).
		Msg("event inbox full")
}

// Close stops intake, delivers everything already queued and closes every
// sink. The store sink flushes its pending save here.
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		<-ctx.Done()
		return ctx.Err()
	}
	r.stopOnce.Do(func() { close(r.stop) })

	drained := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, l := range r.lanes {
		if err := l.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:  r.accepted.Load(),
		DroppedTotal: r.dropped.Load(),
		Filtered:     r.filtered.Load(),
		SinkDropped:  make(map[string]uint64, len(r.lanes)),
	}
	for _, l := range r.lanes {
		stats.SinkDropped[l.name] = l.dropped.Load()
	}
	return stats
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, l := range r.lanes {
		if l.name == name {
			return l.sink
		}
	}
	return nil
}

// lane serialises writes to one sink. After a failed write the lane waits
// 2^failures seconds, capped at 32, before the next attempt.
type lane struct {
	name     string
	sink     Sink
	events   chan Event
	log      zerolog.Logger
	failures int
	retryAt  time.Time
	dropped  atomic.Uint64
}

func newLane(name string, sink Sink, size int, log zerolog.Logger) *lane {
	return &lane{
		name:   name,
		sink:   sink,
		events: make(chan Event, size),
		log:    log,
	}
}

func (l *lane) offer(event Event) {
	select {
	case l.events <- event:
	default:
		l.dropped.Add(1)
		l.log.Warn().Str("sink", l.name).Str("type", string(event.Type)).Msg("sink backlog full")
	}
}

func (l *lane) run() {
	for event := range l.events {
		if wait := time.Until(l.retryAt); wait > 0 {
			time.Sleep(wait)
		}
		if err := l.sink.Write(event); err != nil {
			l.failed(err)
			continue
		}
		l.failures = 0
		l.retryAt = time.Time{}
	}
}

func (l *lane) failed(err error) {
	l.failures++
	delay := time.Second << min(l.failures, maxRetryShift)
	l.retryAt = time.Now().Add(delay)
	l.log.Error().Err(err).Str("sink", l.name).Dur("retry", delay).Msg("sink write failed")
}
