package mocks

import (
	"sync"

	"github.com/VitaminP8/blogery/models"
)

// MockSubscriptionManager records published comments instead of delivering them.
type MockSubscriptionManager struct {
	mu            sync.Mutex
	subs          map[uint][]chan *models.Comment
	notifications map[uint][]*models.Comment
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		subs:          make(map[uint][]chan *models.Comment),
		notifications: make(map[uint][]*models.Comment),
	}
}

func (m *MockSubscriptionManager) Subscribe(postID uint) (<-chan *models.Comment, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan *models.Comment, 16)
	m.subs[postID] = append(m.subs[postID], ch)

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subscribers := m.subs[postID]
		for i, sub := range subscribers {
			if sub == ch {
				m.subs[postID] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
	}

	return ch, cancel
}

func (m *MockSubscriptionManager) Publish(postID uint, comment *models.Comment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}
	m.notifications[postID] = append(m.notifications[postID], comment)
}

// GetNotificationsForPost returns everything published for postID so far.
func (m *MockSubscriptionManager) GetNotificationsForPost(postID uint) []*models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*models.Comment(nil), m.notifications[postID]...)
}
