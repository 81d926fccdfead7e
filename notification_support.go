package pluginsdk

import (
	"context"
	"encoding/json"
	"strings"
)

// NotificationSupport provides helper plumbing for plugins registered as a
// notification target: it filters bridge notification events down to the
// plugin's own notifier name and hands them to the handler.
type NotificationSupport struct {
	notifierName string
	logger       Logger
	handler      NotificationHandler
}

// NewNotificationSupport creates the helper for one notifier name.
func NewNotificationSupport(notifierName string, logger Logger, handler NotificationHandler) *NotificationSupport {
	return &NotificationSupport{
		notifierName: notifierName,
		logger:       logger,
		handler:      handler,
	}
}

// RegisterHandlers registers the notification handler on the dispatcher.
// Call during plugin initialization, after RegisterNotifier on the host.
func (s *NotificationSupport) RegisterHandlers(d *EventDispatcher) {
	d.RegisterHandlerFunc(EventTypeNotification, func(ctx context.Context, ev HostEvent) error {
		return s.handleNotificationEvent(ctx, ev)
	})
}

func (s *NotificationSupport) handleNotificationEvent(ctx context.Context, ev HostEvent) error {
	var payload NotificationEvent
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to parse notification payload", "error", err)
		}
		return err
	}

	// Notifications addressed to another target are not ours.
	if payload.Name != "" && !strings.EqualFold(strings.TrimSpace(payload.Name), strings.TrimSpace(s.notifierName)) {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("notification received",
			"name", payload.Name,
			"subject", payload.Subject,
			"status", payload.Status,
			"priority", payload.Priority,
		)
	}

	if s.handler != nil {
		return s.handler.OnNotification(ctx, payload)
	}

	return nil
}
