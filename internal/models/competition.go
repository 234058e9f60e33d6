package models

import "time"

type CompetitionStatus string

const (
	StatusWaiting CompetitionStatus = "waiting"
	StatusActive  CompetitionStatus = "active"
	StatusEnded   CompetitionStatus = "ended"
)

type Competition struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Status          CompetitionStatus `json:"status"`
	MaxParticipants int               `json:"max_participants"`
	Participants    []string          `json:"participants"`
	ModeratorID     string            `json:"moderator_id"`
	VotingEnabled   bool              `json:"voting_enabled"`
	StartTime       *time.Time        `json:"start_time"`
	EndTime         *time.Time        `json:"end_time"`
	CreatedAt       time.Time         `json:"created_at"`
}

// HasParticipant reports whether userID already joined.
func (c *Competition) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Rating is a traditional star vote for one participant of a competition.
// At most one row exists per (competition, participant, voter) triple.
type Rating struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	ParticipantID string    `json:"participant_id"`
	VoterID       string    `json:"voter_id"`
	Rating        int       `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParticipantResult is one row of the ranked competition results.
type ParticipantResult struct {
	ParticipantID string  `json:"participant_id"`
	AverageRating float64 `json:"average_rating"`
	VoteCount     int     `json:"vote_count"`
}
