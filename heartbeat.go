package pluginsdk

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultHeartbeatInterval is the host's default heartbeat period.
const DefaultHeartbeatInterval = 10 * time.Second

// HeartbeatComplaintThreshold is the interval above which the host logs
// complaints about a plugin's heartbeat. It still honors longer intervals.
const HeartbeatComplaintThreshold = 30 * time.Second

// BeatFunc is called on each heartbeat. Return nil for success.
type BeatFunc func(ctx context.Context) error

// HeartbeatStatus is a snapshot of the runner state.
type HeartbeatStatus struct {
	IsRunning           bool      `json:"is_running"`
	LastBeatTime        time.Time `json:"last_beat_time,omitempty"`
	LastSuccessTime     time.Time `json:"last_success_time,omitempty"`
	LastErrorTime       time.Time `json:"last_error_time,omitempty"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	TotalBeats          int64     `json:"total_beats"`
	TotalFailures       int64     `json:"total_failures"`
}

// HeartbeatOptions contains configuration for the runner.
type HeartbeatOptions struct {
	// Logger for heartbeat events.
	Logger Logger

	// MaxConsecutiveFailures before reporting unhealthy (0 = unlimited).
	MaxConsecutiveFailures int

	// OnBeat callback when a beat succeeds.
	OnBeat func()

	// OnError callback when a beat fails.
	OnError func(err error)

	// OnUnhealthy callback when consecutive failures reach the max.
	OnUnhealthy func(failures int)

	// InitialDelay before the first beat (default: 0).
	InitialDelay time.Duration
}

// heartbeatStats is the mutable runner state, guarded by one mutex.
type heartbeatStats struct {
	running             bool
	interval            time.Duration
	lastBeatTime        time.Time
	lastSuccessTime     time.Time
	lastErrorTime       time.Time
	lastError           error
	consecutiveFailures int
	totalBeats          int64
	totalFailures       int64
}

// HeartbeatRunner drives a plugin's heartbeat when it runs out of process:
// the loop stands in for the host's own heartbeat timer. Wire it to a plugin
// with NewPluginHeartbeat.
type HeartbeatRunner struct {
	beatFn BeatFunc
	opts   HeartbeatOptions

	mu    sync.RWMutex
	stats heartbeatStats

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHeartbeatRunner creates a runner with the given interval and beat
// function.
func NewHeartbeatRunner(interval time.Duration, beatFn BeatFunc, opts HeartbeatOptions) *HeartbeatRunner {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &HeartbeatRunner{
		beatFn: beatFn,
		opts:   opts,
		stats:  heartbeatStats{interval: interval},
	}
}

// NewPluginHeartbeat builds a runner that drives the plugin's OnHeartbeat
// callback and registers the interval with the host, so the host-side
// heartbeat bookkeeping and the plugin-side loop agree.
func NewPluginHeartbeat(ctx context.Context, host FrameworkHost, p Plugin, interval time.Duration, opts HeartbeatOptions) (*HeartbeatRunner, error) {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if interval > HeartbeatComplaintThreshold && opts.Logger != nil {
		opts.Logger.Warn("heartbeat interval above host complaint threshold",
			"interval", interval.String(), "threshold", HeartbeatComplaintThreshold.String())
	}
	if err := host.SetHeartbeat(ctx, interval); err != nil {
		return nil, fmt.Errorf("register heartbeat interval: %w", err)
	}
	return NewHeartbeatRunner(interval, p.OnHeartbeat, opts), nil
}

// Start begins the heartbeat loop. Starting a running runner is a no-op.
func (r *HeartbeatRunner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.stats.running {
		r.mu.Unlock()
		return
	}
	r.stats.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop stops the heartbeat loop. Stopping a stopped runner is a no-op.
func (r *HeartbeatRunner) Stop() {
	r.mu.Lock()
	if !r.stats.running {
		r.mu.Unlock()
		return
	}
	r.stats.running = false
	stopCh := r.stopCh
	r.mu.Unlock()

	close(stopCh)
	r.wg.Wait()
}

// IsRunning returns true while the loop is active.
func (r *HeartbeatRunner) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.running
}

// IsHealthy returns false once consecutive failures reach the configured max.
func (r *HeartbeatRunner) IsHealthy() bool {
	if r.opts.MaxConsecutiveFailures <= 0 {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.consecutiveFailures < r.opts.MaxConsecutiveFailures
}

// ConsecutiveFailures returns the current consecutive failure count.
func (r *HeartbeatRunner) ConsecutiveFailures() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.consecutiveFailures
}

// LastError returns the last beat error.
func (r *HeartbeatRunner) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.lastError
}

// Status returns the current runner status.
func (r *HeartbeatRunner) Status() HeartbeatStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := HeartbeatStatus{
		IsRunning:           r.stats.running,
		LastBeatTime:        r.stats.lastBeatTime,
		LastSuccessTime:     r.stats.lastSuccessTime,
		LastErrorTime:       r.stats.lastErrorTime,
		ConsecutiveFailures: r.stats.consecutiveFailures,
		TotalBeats:          r.stats.totalBeats,
		TotalFailures:       r.stats.totalFailures,
	}
	if r.stats.lastError != nil {
		status.LastError = r.stats.lastError.Error()
	}
	return status
}

// BeatNow triggers an immediate beat (non-blocking).
func (r *HeartbeatRunner) BeatNow() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.Interval())
		defer cancel()
		r.beat(ctx)
	}()
}

// SetInterval changes the interval. Takes effect when the next beat is
// scheduled.
func (r *HeartbeatRunner) SetInterval(interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.interval = interval
}

// Interval returns the current interval.
func (r *HeartbeatRunner) Interval() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats.interval
}

func (r *HeartbeatRunner) loop(ctx context.Context) {
	defer r.wg.Done()

	r.mu.RLock()
	stopCh := r.stopCh
	r.mu.RUnlock()

	if r.opts.InitialDelay > 0 {
		select {
		case <-time.After(r.opts.InitialDelay):
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		}
	}

	// First beat fires immediately; the timer is re-armed per beat so
	// SetInterval applies without restarting the loop.
	for {
		r.beat(ctx)

		timer := time.NewTimer(r.Interval())
		select {
		case <-timer.C:
		case <-stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (r *HeartbeatRunner) beat(ctx context.Context) {
	r.mu.Lock()
	r.stats.lastBeatTime = time.Now()
	r.stats.totalBeats++
	r.mu.Unlock()

	err := r.beatFn(ctx)

	if err == nil {
		r.mu.Lock()
		r.stats.lastError = nil
		r.stats.lastSuccessTime = time.Now()
		r.stats.consecutiveFailures = 0
		r.mu.Unlock()

		if r.opts.OnBeat != nil {
			r.opts.OnBeat()
		}
		return
	}

	r.mu.Lock()
	r.stats.lastError = err
	r.stats.lastErrorTime = time.Now()
	r.stats.consecutiveFailures++
	r.stats.totalFailures++
	failures := r.stats.consecutiveFailures
	r.mu.Unlock()

	if r.opts.Logger != nil {
		r.opts.Logger.Error("heartbeat failed", "error", err, "consecutive_failures", failures)
	}
	if r.opts.OnError != nil {
		r.opts.OnError(err)
	}
	if r.opts.MaxConsecutiveFailures > 0 && failures >= r.opts.MaxConsecutiveFailures {
		if r.opts.OnUnhealthy != nil {
			r.opts.OnUnhealthy(failures)
		}
	}
}
