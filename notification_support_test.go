package pluginsdk

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyRecorder struct {
	mu   sync.Mutex
	seen []NotificationEvent
}

func (r *notifyRecorder) OnNotification(ctx context.Context, n NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
	return nil
}

func notificationEvent(t *testing.T, n NotificationEvent) HostEvent {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return HostEvent{ID: 1, Type: EventTypeNotification, Payload: b}
}

func TestNotificationSupportFiltersByName(t *testing.T) {
	rec := &notifyRecorder{}
	s := NewNotificationSupport("my-notifier", &recordLogger{}, rec)
	ctx := context.Background()

	// addressed to this notifier
	err := s.handleNotificationEvent(ctx, notificationEvent(t, NotificationEvent{Name: "my-notifier", Subject: "alarm"}))
	require.NoError(t, err)

	// case and whitespace are tolerated
	err = s.handleNotificationEvent(ctx, notificationEvent(t, NotificationEvent{Name: " MY-Notifier ", Subject: "again"}))
	require.NoError(t, err)

	// addressed to another notifier: silently dropped
	err = s.handleNotificationEvent(ctx, notificationEvent(t, NotificationEvent{Name: "other", Subject: "not ours"}))
	require.NoError(t, err)

	// unaddressed notifications pass through
	err = s.handleNotificationEvent(ctx, notificationEvent(t, NotificationEvent{Subject: "broadcast"}))
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.seen, 3)
	assert.Equal(t, "alarm", rec.seen[0].Subject)
	assert.Equal(t, "again", rec.seen[1].Subject)
	assert.Equal(t, "broadcast", rec.seen[2].Subject)
}

func TestNotificationSupportBadPayload(t *testing.T) {
	s := NewNotificationSupport("my-notifier", &recordLogger{}, &notifyRecorder{})

	err := s.handleNotificationEvent(context.Background(), HostEvent{
		ID:      1,
		Type:    EventTypeNotification,
		Payload: json.RawMessage(`{broken`),
	})
	assert.Error(t, err)
}

func TestNotificationSupportRegisterHandlers(t *testing.T) {
	rec := &notifyRecorder{}
	s := NewNotificationSupport("my-notifier", nil, rec)

	d, err := NewEventDispatcher(EventDispatcherConfig{PluginKey: "p"})
	require.NoError(t, err)
	s.RegisterHandlers(d)

	d.dispatch(notificationEvent(t, NotificationEvent{Name: "my-notifier", Subject: "routed"}))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.seen, 1)
	assert.Equal(t, "routed", rec.seen[0].Subject)
}
