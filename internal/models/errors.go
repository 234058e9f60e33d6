package models

import "errors"

var (
	ErrCompetitionNotFound   = errors.New("competition is not found")
	ErrCompetitionFull       = errors.New("competition is full")
	ErrCompetitionNotWaiting = errors.New("competition is already started")
	ErrCompetitionEnded      = errors.New("competition is already ended")

	ErrSessionNotFound   = errors.New("voting session is not found")
	ErrVotingClosed      = errors.New("voting session is closed")
	ErrVoteAlreadyExists = errors.New("your vote already written")
	ErrOptionNotFound    = errors.New("option is not found")
	ErrQuestionIsEmpty   = errors.New("question is empty")
	ErrOptionIsEmpty     = errors.New("option is empty")
	ErrNotEnoughOptions  = errors.New("the number of options should be at least 2")
	ErrDuplicateOption   = errors.New("options must be distinct")

	ErrMessageNotFound = errors.New("message is not found")

	ErrCategoryNotFound = errors.New("category is not found")
	ErrMenuItemNotFound = errors.New("menu item is not found")
	ErrUserExists       = errors.New("user already exists")

	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
