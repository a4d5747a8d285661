package subscription

import (
	"sync"

	"github.com/VitaminP8/blogery/models"
)

// feedBuffer is how many comments a reader may fall behind before new ones
// are dropped for it.
const feedBuffer = 16

type SubscriptionManager struct {
	mu   sync.RWMutex
	subs map[uint][]chan *models.Comment // postID -> reader channels
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[uint][]chan *models.Comment),
	}
}

// Subscribe registers a reader of postID. The returned cancel func removes
// the subscription and closes the channel; it is safe to call more than once.
func (m *SubscriptionManager) Subscribe(postID uint) (<-chan *models.Comment, func()) {
	ch := make(chan *models.Comment, feedBuffer)

	m.mu.Lock()
	m.subs[postID] = append(m.subs[postID], ch)
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.remove(postID, ch)
			close(ch)
		})
	}

	return ch, cancel
}

func (m *SubscriptionManager) remove(postID uint, ch chan *models.Comment) {
	chans := m.subs[postID]
	for i, sub := range chans {
		if sub == ch {
			chans = append(chans[:i:i], chans[i+1:]...)
			break
		}
	}
	if len(chans) == 0 {
		delete(m.subs, postID)
		return
	}
	m.subs[postID] = chans
}

// Publish hands comment to every reader of postID without waiting: a reader
// whose buffer is full misses it. The read lock only keeps cancel from
// closing a channel mid-send, so publishers never block each other.
func (m *SubscriptionManager) Publish(postID uint, comment *models.Comment) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subs[postID] {
		select {
		case sub <- comment:
		default:
		}
	}
}

func (m *SubscriptionManager) readers(postID uint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.subs[postID])
}
