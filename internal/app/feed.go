package app

import (
	"sync"

	"quizdesk/internal/domain"
)

// StatsFeed fans out graded-submission events to live subscribers, keyed by
// quiz. Subscribers that fall behind lose the oldest buffered event rather
// than blocking the publisher.
type StatsFeed struct {
	mu          sync.RWMutex
	subscribers map[int64]map[chan domain.StatEvent]struct{}
}

func NewStatsFeed() *StatsFeed {
	return &StatsFeed{
		subscribers: make(map[int64]map[chan domain.StatEvent]struct{}),
	}
}

// Subscribe registers for events on one quiz. The caller must invoke the
// returned cancel function to avoid leaks.
func (f *StatsFeed) Subscribe(quizID int64) (<-chan domain.StatEvent, func()) {
	ch := make(chan domain.StatEvent, 8)

	f.mu.Lock()
	if f.subscribers[quizID] == nil {
		f.subscribers[quizID] = make(map[chan domain.StatEvent]struct{})
	}
	f.subscribers[quizID][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if subs, ok := f.subscribers[quizID]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(f.subscribers, quizID)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of its quiz.
func (f *StatsFeed) Publish(ev domain.StatEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.subscribers[ev.QuizID] {
		select {
		case ch <- ev:
		default:
			// Full buffer: drop the oldest event, then retry without blocking
			// in case another publisher raced for the freed slot.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
