package service

import (
	"encoding/json"
	"sync"
)

// Broadcaster fans a serialized event out to every live connection of a
// room. Satisfied by ws.Hub.
type Broadcaster interface {
	Broadcast(roomID string, payload []byte)
}

const (
	EventCompetitionStarted = "competition_started"
	EventCompetitionEnded   = "competition_ended"
	EventVotingStarted      = "voting_started"
	EventVotingUpdate       = "voting_update"
	EventVotingEnded        = "voting_ended"
	EventNewVote            = "new_vote"
	EventNewMessage         = "new_message"
)

// newEvent builds the wire form of a server event: a JSON object with a
// type field plus one type-specific payload field.
func newEvent(eventType, field string, payload interface{}) []byte {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		field:  payload,
	})
	if err != nil {
		return nil
	}
	return data
}

// keyedMutex serializes work per key so that unrelated sessions or
// competitions never block each other. Entries are reference counted
// and removed when the last holder releases, so the map stays bounded
// by the number of in-flight operations.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the key is held and returns the matching release.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
