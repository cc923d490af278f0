package model

import (
	"sync"
	"time"
)

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return ErrAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		JoinedAt: time.Now(),
	})
	return nil
}

// Requeue puts players back at the head of the queue in the given order,
// ahead of everyone who joined since. Players already queued are skipped.
func (q *Queue) Requeue(players ...Player) {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := make([]QueuedPlayer, 0, len(players))
	for _, player := range players {
		if q.indexOf(player.ID) >= 0 {
			continue
		}
		front = append(front, QueuedPlayer{Player: player, JoinedAt: time.Now()})
	}
	q.players = append(front, q.players...)
}

func (q *Queue) indexOf(playerID string) int {
	for i, p := range q.players {
		if p.Player.ID == playerID {
			return i
		}
	}
	return -1
}

// Remove drops playerID from the queue and reports whether it was queued.
func (q *Queue) Remove(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair pops the two players who have waited longest. ok is false when
// fewer than two are waiting.
func (q *Queue) GetNextPair() (first, second Player, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return Player{}, Player{}, false
	}
	first, second = q.players[0].Player, q.players[1].Player
	q.players = q.players[2:]
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
