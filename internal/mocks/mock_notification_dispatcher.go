package mocks

import (
	"context"

	"github.com/Triostacksoftware/authkit/domain"
)

// MockNotificationDispatcher implements domain.NotificationDispatcher for testing
type MockNotificationDispatcher struct {
	SendFunc func(ctx context.Context, to string, msg domain.Message) error

	// Sent records every delivered message for assertions
	Sent []SentMessage
}

// SentMessage is one recorded delivery
type SentMessage struct {
	To      string
	Message domain.Message
}

// NewMockNotificationDispatcher creates a new MockNotificationDispatcher with default behaviors
func NewMockNotificationDispatcher() *MockNotificationDispatcher {
	return &MockNotificationDispatcher{}
}

// Send delivers a rendered message
func (m *MockNotificationDispatcher) Send(ctx context.Context, to string, msg domain.Message) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, msg)
	}
	// Default behavior: record and succeed
	m.Sent = append(m.Sent, SentMessage{To: to, Message: msg})
	return nil
}
