package pluginsdk

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestHeartbeatRunnerBeats(t *testing.T) {
	var beats atomic.Int64
	beaten := make(chan struct{}, 16)

	r := NewHeartbeatRunner(5*time.Millisecond, func(ctx context.Context) error {
		beats.Add(1)
		select {
		case beaten <- struct{}{}:
		default:
		}
		return nil
	}, HeartbeatOptions{})

	r.Start(context.Background())
	defer r.Stop()
	assert.True(t, r.IsRunning())

	waitFor(t, beaten, "first beat")
	waitFor(t, beaten, "second beat")

	status := r.Status()
	assert.True(t, status.IsRunning)
	assert.GreaterOrEqual(t, status.TotalBeats, int64(2))
	assert.Equal(t, 0, status.ConsecutiveFailures)
	assert.False(t, status.LastSuccessTime.IsZero())

	r.Stop()
	assert.False(t, r.IsRunning())
	final := beats.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, final, beats.Load())
}

func TestHeartbeatRunnerDoubleStartStop(t *testing.T) {
	r := NewHeartbeatRunner(time.Hour, func(ctx context.Context) error { return nil }, HeartbeatOptions{})

	r.Start(context.Background())
	r.Start(context.Background()) // no-op
	assert.True(t, r.IsRunning())

	r.Stop()
	r.Stop() // no-op
	assert.False(t, r.IsRunning())
}

func TestHeartbeatRunnerFailureAccounting(t *testing.T) {
	beatErr := errors.New("device unreachable")
	errored := make(chan struct{}, 16)
	unhealthy := make(chan struct{}, 1)

	r := NewHeartbeatRunner(5*time.Millisecond, func(ctx context.Context) error {
		return beatErr
	}, HeartbeatOptions{
		Logger:                 &recordLogger{},
		MaxConsecutiveFailures: 2,
		OnError: func(err error) {
			select {
			case errored <- struct{}{}:
			default:
			}
		},
		OnUnhealthy: func(failures int) {
			select {
			case unhealthy <- struct{}{}:
			default:
			}
		},
	})

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, errored, "first failure")
	waitFor(t, unhealthy, "unhealthy callback")

	assert.False(t, r.IsHealthy())
	assert.GreaterOrEqual(t, r.ConsecutiveFailures(), 2)
	assert.ErrorIs(t, r.LastError(), beatErr)

	status := r.Status()
	assert.Equal(t, beatErr.Error(), status.LastError)
	assert.GreaterOrEqual(t, status.TotalFailures, int64(2))
}

func TestHeartbeatRunnerRecovers(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	succeeded := make(chan struct{}, 1)

	r := NewHeartbeatRunner(5*time.Millisecond, func(ctx context.Context) error {
		if fail.Load() {
			return errors.New("still down")
		}
		select {
		case succeeded <- struct{}{}:
		default:
		}
		return nil
	}, HeartbeatOptions{MaxConsecutiveFailures: 100})

	r.Start(context.Background())
	defer r.Stop()

	require.Eventually(t, func() bool { return r.ConsecutiveFailures() > 0 }, 5*time.Second, time.Millisecond)

	fail.Store(false)
	waitFor(t, succeeded, "recovery beat")

	require.Eventually(t, func() bool { return r.ConsecutiveFailures() == 0 }, 5*time.Second, time.Millisecond)
	assert.True(t, r.IsHealthy())
	assert.NoError(t, r.LastError())
}

// beatPlugin signals every OnHeartbeat delivery.
type beatPlugin struct {
	testPlugin
	beaten chan struct{}
}

func (p *beatPlugin) OnHeartbeat(ctx context.Context) error {
	select {
	case p.beaten <- struct{}{}:
	default:
	}
	return nil
}

func TestNewPluginHeartbeat(t *testing.T) {
	host := newFakeHost()
	p := &beatPlugin{beaten: make(chan struct{}, 4)}

	r, err := NewPluginHeartbeat(context.Background(), host, p, 5*time.Millisecond, HeartbeatOptions{})
	require.NoError(t, err)

	// the interval is registered with the host before the loop runs
	assert.Equal(t, 5*time.Millisecond, host.heartbeat)

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, p.beaten, "plugin heartbeat")
	assert.GreaterOrEqual(t, r.Status().TotalBeats, int64(1))
}

func TestNewPluginHeartbeatDefaults(t *testing.T) {
	host := newFakeHost()
	p := &beatPlugin{beaten: make(chan struct{}, 1)}

	r, err := NewPluginHeartbeat(context.Background(), host, p, 0, HeartbeatOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultHeartbeatInterval, r.Interval())
	assert.Equal(t, DefaultHeartbeatInterval, host.heartbeat)
}

func TestNewPluginHeartbeatComplaintThreshold(t *testing.T) {
	host := newFakeHost()
	p := &beatPlugin{beaten: make(chan struct{}, 1)}
	log := &recordLogger{}

	// the host honors long intervals but logs complaints; the runner warns
	_, err := NewPluginHeartbeat(context.Background(), host, p, time.Minute, HeartbeatOptions{Logger: log})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, host.heartbeat)
	assert.Len(t, log.warns, 1)

	log = &recordLogger{}
	_, err = NewPluginHeartbeat(context.Background(), host, p, HeartbeatComplaintThreshold, HeartbeatOptions{Logger: log})
	require.NoError(t, err)
	assert.Empty(t, log.warns)
}

func TestNewPluginHeartbeatRegistrationError(t *testing.T) {
	host := newFakeHost()
	host.err = errors.New("bridge down")
	p := &beatPlugin{beaten: make(chan struct{}, 1)}

	_, err := NewPluginHeartbeat(context.Background(), host, p, time.Second, HeartbeatOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, host.err)
}

func TestHeartbeatRunnerDefaultInterval(t *testing.T) {
	r := NewHeartbeatRunner(0, func(ctx context.Context) error { return nil }, HeartbeatOptions{})
	assert.Equal(t, DefaultHeartbeatInterval, r.Interval())

	r.SetInterval(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Interval())
}

func TestHeartbeatRunnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	beaten := make(chan struct{}, 1)

	r := NewHeartbeatRunner(5*time.Millisecond, func(ctx context.Context) error {
		select {
		case beaten <- struct{}{}:
		default:
		}
		return nil
	}, HeartbeatOptions{})

	r.Start(ctx)
	waitFor(t, beaten, "first beat")

	cancel()
	// the loop exits on context cancellation; Stop stays safe to call
	require.Eventually(t, func() bool {
		r.Stop()
		return !r.IsRunning()
	}, 5*time.Second, 10*time.Millisecond)
}
