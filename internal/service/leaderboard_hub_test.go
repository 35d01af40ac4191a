package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/internal/dto"
)

func TestHubDeliversToSubscribers(t *testing.T) {
	hub := NewLeaderboardHub()

	ch1, cancel1 := hub.Subscribe(1)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(1)
	defer cancel2()
	other, cancelOther := hub.Subscribe(2)
	defer cancelOther()

	hub.Publish(1, dto.LeaderboardDTO{QuizID: 1, TotalQuestions: 5})

	select {
	case board := <-ch1:
		assert.Equal(t, uint(1), board.QuizID)
	case <-time.After(time.Second):
		t.Fatal("first subscriber did not receive the snapshot")
	}
	select {
	case board := <-ch2:
		assert.Equal(t, uint(1), board.QuizID)
	case <-time.After(time.Second):
		t.Fatal("second subscriber did not receive the snapshot")
	}

	select {
	case <-other:
		t.Fatal("subscriber of another quiz received the snapshot")
	default:
	}
}

func TestHubPublishDropsOldestForSlowSubscriber(t *testing.T) {
	hub := NewLeaderboardHub()

	ch, cancel := hub.Subscribe(1)
	defer cancel()

	// Overfill the buffer without reading. Publish must never block.
	for i := 0; i < 20; i++ {
		hub.Publish(1, dto.LeaderboardDTO{QuizID: 1, TotalQuestions: i})
	}

	var last dto.LeaderboardDTO
	received := 0
drain:
	for {
		select {
		case board := <-ch:
			last = board
			received++
		default:
			break drain
		}
	}

	require.Greater(t, received, 0)
	// The newest snapshot survives; stale ones were dropped.
	assert.Equal(t, 19, last.TotalQuestions)
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewLeaderboardHub()

	ch, cancel := hub.Subscribe(1)
	assert.Equal(t, 1, hub.SubscriberCount(1))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount(1))

	_, open := <-ch
	assert.False(t, open)

	// Publishing after the last cancel is a no-op.
	hub.Publish(1, dto.LeaderboardDTO{QuizID: 1})
}

func TestHubCancelIsIdempotent(t *testing.T) {
	hub := NewLeaderboardHub()

	_, cancel := hub.Subscribe(1)
	cancel()
	cancel()

	assert.Equal(t, 0, hub.SubscriberCount(1))
}

func TestHubSubscriberCountPerQuiz(t *testing.T) {
	hub := NewLeaderboardHub()

	_, cancel1 := hub.Subscribe(1)
	defer cancel1()
	_, cancel2 := hub.Subscribe(1)
	_, cancel3 := hub.Subscribe(2)
	defer cancel3()

	assert.Equal(t, 2, hub.SubscriberCount(1))
	assert.Equal(t, 1, hub.SubscriberCount(2))
	assert.Equal(t, 0, hub.SubscriberCount(3))

	cancel2()
	assert.Equal(t, 1, hub.SubscriberCount(1))
}
