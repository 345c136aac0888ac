package app_test

import (
	"testing"
	"time"

	"quizdesk/internal/app"
	"quizdesk/internal/domain"
)

func TestStatsFeedDeliversPerQuiz(t *testing.T) {
	feed := app.NewStatsFeed()

	ch1, cancel1 := feed.Subscribe(1)
	defer cancel1()
	ch2, cancel2 := feed.Subscribe(2)
	defer cancel2()

	feed.Publish(domain.StatEvent{QuizID: 1, UserID: 7, Score: 3})

	select {
	case ev := <-ch1:
		if ev.UserID != 7 || ev.Score != 3 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber of quiz 1 got no event")
	}

	select {
	case ev := <-ch2:
		t.Fatalf("subscriber of quiz 2 should not receive %+v", ev)
	default:
	}
}

func TestStatsFeedCancelClosesChannel(t *testing.T) {
	feed := app.NewStatsFeed()

	ch, cancel := feed.Subscribe(1)
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}

	// Publishing after cancel must not panic or block.
	feed.Publish(domain.StatEvent{QuizID: 1})

	// Double cancel is a no-op.
	cancel()
}

func TestStatsFeedSlowSubscriberDropsOldest(t *testing.T) {
	feed := app.NewStatsFeed()

	ch, cancel := feed.Subscribe(1)
	defer cancel()

	// Overflow the buffer; publisher must never block.
	for i := 0; i < 20; i++ {
		feed.Publish(domain.StatEvent{QuizID: 1, Score: i})
	}

	last := domain.StatEvent{Score: -1}
	for {
		select {
		case ev := <-ch:
			last = ev
			continue
		default:
		}
		break
	}
	if last.Score != 19 {
		t.Fatalf("expected newest event retained, got score %d", last.Score)
	}
}
