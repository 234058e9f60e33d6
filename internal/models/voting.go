package models

import "time"

// VotingSession is one live poll. Options and the keys of Votes are fixed
// at creation; VoterIDs grows monotonically and enforces one vote per voter.
type VotingSession struct {
	ID            string         `json:"id"`
	CompetitionID string         `json:"competition_id"`
	Question      string         `json:"question"`
	Options       []string       `json:"options"`
	Votes         map[string]int `json:"votes"`
	VoterIDs      []string       `json:"voter_ids"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HasVoter reports whether voterID already voted in this session.
func (s *VotingSession) HasVoter(voterID string) bool {
	for _, v := range s.VoterIDs {
		if v == voterID {
			return true
		}
	}
	return false
}

type ChatMessage struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Text          string    `json:"text"`
	IsModerated   bool      `json:"is_moderated"`
	CreatedAt     time.Time `json:"created_at"`
}
