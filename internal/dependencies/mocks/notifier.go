package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/liarsdice-go/internal/model"
)

// MockNotifier records every published notification
type MockNotifier struct {
	mu            sync.Mutex
	Notifications []model.Notification
}

// NewMockNotifier creates an empty MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (n *MockNotifier) Publish(ctx context.Context, notification model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, notification)
}

// OfType returns the recorded notifications of one type, in publish order
func (n *MockNotifier) OfType(t model.NotificationType) []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.Notification
	for _, notification := range n.Notifications {
		if notification.Type == t {
			out = append(out, notification)
		}
	}
	return out
}

// Types returns the type of every recorded notification, in publish order
func (n *MockNotifier) Types() []model.NotificationType {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.NotificationType, len(n.Notifications))
	for i, notification := range n.Notifications {
		out[i] = notification.Type
	}
	return out
}

// Reset forgets recorded notifications
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = nil
}
