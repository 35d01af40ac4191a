package service

import (
	"sync"

	"quizroom/internal/dto"
)

// LeaderboardHub fans leaderboard snapshots out to subscribers, one subscriber
// set per quiz. Publishing never blocks: slow subscribers lose the oldest
// buffered snapshot, not the newest.
type LeaderboardHub struct {
	mu      sync.Mutex
	quizzes map[uint]map[chan dto.LeaderboardDTO]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{quizzes: make(map[uint]map[chan dto.LeaderboardDTO]struct{})}
}

// Subscribe registers interest in a quiz's leaderboard. The caller must invoke
// the returned cancel function to avoid leaking the channel.
func (h *LeaderboardHub) Subscribe(quizID uint) (<-chan dto.LeaderboardDTO, func()) {
	ch := make(chan dto.LeaderboardDTO, 8)

	h.mu.Lock()
	subs, ok := h.quizzes[quizID]
	if !ok {
		subs = make(map[chan dto.LeaderboardDTO]struct{})
		h.quizzes[quizID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.quizzes[quizID]
		if !ok {
			return
		}
		if _, present := subs[ch]; present {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.quizzes, quizID)
		}
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the quiz.
func (h *LeaderboardHub) Publish(quizID uint, snapshot dto.LeaderboardDTO) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.quizzes[quizID] {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale snapshot so the newest one always fits.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// SubscriberCount reports how many listeners a quiz currently has.
func (h *LeaderboardHub) SubscriberCount(quizID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.quizzes[quizID])
}
