// Package notification keeps the recent user-facing notices raised by the
// scanner and other services, and fans them out to live subscribers.
package notification

import (
	"Supermarket-Vision-Backend/domain"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"sync"
	"time"
)

const (
	defaultCapacity   = 50
	subscriberBacklog = 16
)

type (
	Notifier interface {
		Notify(title, description, variant string)
	}

	NotificationService interface {
		Notifier
		Recent(limit int) []domain.Notification
		Subscribe() (<-chan domain.Notification, func())
	}

	notificationService struct {
		mu          sync.RWMutex
		capacity    int
		recent      []domain.Notification
		subscribers map[uint64]chan domain.Notification
		nextID      uint64
		now         func() time.Time
	}
)

func NewNotificationService(capacity int) NotificationService {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &notificationService{
		capacity:    capacity,
		subscribers: make(map[uint64]chan domain.Notification),
		now:         time.Now,
	}
}

func (s *notificationService) Notify(title, description, variant string) {
	if variant == "" {
		variant = domain.VariantDefault
	}
	n := domain.Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.recent = append(s.recent, n)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[len(s.recent)-s.capacity:]
	}
	for id, ch := range s.subscribers {
		select {
		case ch <- n:
		default:
			log.Warnf("notification subscriber %d is lagging, dropping %q", id, title)
		}
	}
	s.mu.Unlock()

	if variant == domain.VariantDestructive {
		log.Warnf("%s: %s", title, description)
	} else {
		log.Infof("%s: %s", title, description)
	}
}

// Recent returns up to limit notifications, newest first. limit <= 0 means
// all of them.
func (s *notificationService) Recent(limit int) []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.recent)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Notification, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.recent[i])
	}
	return out
}

// Subscribe registers a live listener. The returned func unregisters it and
// closes the channel.
func (s *notificationService) Subscribe() (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, subscriberBacklog)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}
