package mocks

import (
	"context"
	"sync"

	"github.com/VitaminP8/blogery/internal/mail"
)

// MockMailSender keeps sent messages in memory. Sent is signalled once per message.
type MockMailSender struct {
	mu       sync.Mutex
	messages []mail.ContactMessage
	Err      error
	Sent     chan struct{}
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{Sent: make(chan struct{}, 16)}
}

func (m *MockMailSender) Send(_ context.Context, msg mail.ContactMessage) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()

	select {
	case m.Sent <- struct{}{}:
	default:
	}
	return m.Err
}

func (m *MockMailSender) Messages() []mail.ContactMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mail.ContactMessage(nil), m.messages...)
}
