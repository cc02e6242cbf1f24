package eventbus

import (
	"sync"
	"testing"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	b.Publish(StandingsUpdated, StandingsUpdatedPayload{CompetitionID: 1, SeasonID: 2})

	evt := <-sub.Events()
	if evt.Type != StandingsUpdated {
		t.Fatalf("expected type %q, got %q", StandingsUpdated, evt.Type)
	}
	payload, ok := evt.Data.(StandingsUpdatedPayload)
	if !ok {
		t.Fatalf("expected StandingsUpdatedPayload, got %T", evt.Data)
	}
	if payload.CompetitionID != 1 || payload.SeasonID != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPublishDropsOverflowingSubscriber(t *testing.T) {
	b := New()
	sub := b.Subscribe()

	for i := 0; i < BufferSize+5; i++ {
		b.Publish(MatchConfirmed, i)
	}

	if b.SubscriberCount() != 0 {
		t.Fatalf("expected overflowing subscriber to be dropped, got %d remaining", b.SubscriberCount())
	}

	// The channel should be closed, draining to zero value without blocking.
	count := 0
	for range sub.ch {
		count++
	}
	if count != BufferSize {
		t.Fatalf("expected exactly %d buffered events, got %d", BufferSize, count)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	if b.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers after unsubscribe, got %d", b.SubscriberCount())
	}

	// Publishing after unsubscribe must not panic or block.
	b.Publish(BracketUpdated, BracketUpdatedPayload{})
}

func TestConcurrentSubscribeUnsubscribePublish(t *testing.T) {
	b := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := b.Subscribe()
			b.Publish(CompetitionComplete, CompetitionCompletePayload{CompetitionID: 1})
			b.Unsubscribe(sub)
		}()
	}
	wg.Wait()

	if b.SubscriberCount() != 0 {
		t.Fatalf("expected all subscribers cleaned up, got %d", b.SubscriberCount())
	}
}
