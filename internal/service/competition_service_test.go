package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/skillarena/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionService_Join(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 1)

	joined, err := env.competitions.Join(ctx, competition.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, joined.Participants)

	// re-joining is a no-op success, not a duplicate entry
	again, err := env.competitions.Join(ctx, competition.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, again.Participants)

	_, err = env.competitions.Join(ctx, competition.ID, "u2")
	assert.ErrorIs(t, err, models.ErrCompetitionFull)

	_, err = env.competitions.Join(ctx, "missing", "u1")
	assert.ErrorIs(t, err, models.ErrCompetitionNotFound)
}

func TestCompetitionService_ConcurrentJoins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 10)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.competitions.Join(ctx, competition.ID, fmt.Sprintf("u%d", i))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	full := 0
	for err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, models.ErrCompetitionFull)
			full++
		}
	}
	assert.Equal(t, 10, full)

	final, err := env.competitions.Get(ctx, competition.ID)
	require.NoError(t, err)
	assert.Len(t, final.Participants, 10)
}

func TestCompetitionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)
	assert.Equal(t, models.StatusWaiting, competition.Status)
	assert.Nil(t, competition.StartTime)

	started, err := env.competitions.Start(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, started.Status)
	require.NotNil(t, started.StartTime)

	// restarting an active competition is rejected
	_, err = env.competitions.Start(ctx, competition.ID)
	assert.ErrorIs(t, err, models.ErrCompetitionNotWaiting)

	ended, err := env.competitions.End(ctx, competition.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnded, ended.Status)
	require.NotNil(t, ended.EndTime)

	_, err = env.competitions.Start(ctx, competition.ID)
	assert.ErrorIs(t, err, models.ErrCompetitionNotWaiting)
	_, err = env.competitions.End(ctx, competition.ID)
	assert.ErrorIs(t, err, models.ErrCompetitionEnded)

	_, err = env.competitions.Start(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrCompetitionNotFound)
	_, err = env.competitions.End(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrCompetitionNotFound)

	assert.Equal(t,
		[]string{EventCompetitionStarted, EventCompetitionEnded},
		env.broadcast.types(competition.ID))
}

func TestCompetitionService_EndCascadesVotingSessions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)
	_, err := env.competitions.Start(ctx, competition.ID)
	require.NoError(t, err)

	s1, err := env.voting.Create(ctx, competition.ID, "q1", []string{"A", "B"})
	require.NoError(t, err)
	s2, err := env.voting.Create(ctx, competition.ID, "q2", []string{"A", "B"})
	require.NoError(t, err)

	_, err = env.competitions.End(ctx, competition.ID)
	require.NoError(t, err)

	for _, id := range []string{s1.ID, s2.ID} {
		session, err := env.voting.End(ctx, id)
		require.NoError(t, err)
		assert.False(t, session.IsActive)
	}

	active, err := env.voting.ListActive(ctx, competition.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCompetitionService_EndCascadeWaitsForInFlightVote(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)
	_, err := env.competitions.Start(ctx, competition.ID)
	require.NoError(t, err)
	session, err := env.voting.Create(ctx, competition.ID, "best dish?", []string{"A", "B"})
	require.NoError(t, err)

	// hold the session lock the way an in-flight vote does
	unlock := env.voting.locks.lock(session.ID)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := env.competitions.End(ctx, competition.ID)
		assert.NoError(t, err)
	}()

	select {
	case <-done:
		t.Fatal("cascade closed the session without taking its lock")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	<-done

	active, err := env.voting.ListActive(ctx, competition.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestCompetitionService_EndWhileVotesAreRacing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)
	_, err := env.competitions.Start(ctx, competition.ID)
	require.NoError(t, err)
	session, err := env.voting.Create(ctx, competition.ID, "best dish?", []string{"A", "B"})
	require.NoError(t, err)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			if _, err := env.voting.SubmitVote(ctx, session.ID, fmt.Sprintf("v%d", i), "A"); err != nil {
				assert.ErrorIs(t, err, models.ErrVotingClosed)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		_, err := env.competitions.End(ctx, competition.ID)
		assert.NoError(t, err)
	}()
	close(start)
	wg.Wait()

	// the session must stay closed no matter how the vote writes landed
	active, err := env.voting.ListActive(ctx, competition.ID)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = env.voting.SubmitVote(ctx, session.ID, "late", "A")
	assert.ErrorIs(t, err, models.ErrVotingClosed)
}

func TestCompetitionService_SubmitRating(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)

	_, err := env.competitions.SubmitRating(ctx, competition.ID, "p1", "v1", 4)
	require.NoError(t, err)

	// second rating by the same voter replaces, never duplicates
	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p1", "v1", 2)
	require.NoError(t, err)

	results, err := env.competitions.Results(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].VoteCount)
	assert.Equal(t, 2.0, results[0].AverageRating)

	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p1", "v2", 0)
	assert.ErrorIs(t, err, models.ErrInvalidRating)
	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p1", "v2", 6)
	assert.ErrorIs(t, err, models.ErrInvalidRating)
	_, err = env.competitions.SubmitRating(ctx, "missing", "p1", "v1", 3)
	assert.ErrorIs(t, err, models.ErrCompetitionNotFound)
}

func TestCompetitionService_ConcurrentRatingsUpsertOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.competitions.SubmitRating(ctx, competition.ID, "p1", "v1", 5)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	// one voter, one participant: exactly one stored row
	results, err := env.competitions.Results(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].VoteCount)
	assert.Equal(t, 5.0, results[0].AverageRating)
}

func TestCompetitionService_ResultsRanking(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)

	// p1 mean 3, p2 mean 5, p3 mean 3 (tied with p1, voted later)
	_, err := env.competitions.SubmitRating(ctx, competition.ID, "p1", "v1", 3)
	require.NoError(t, err)
	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p2", "v1", 5)
	require.NoError(t, err)
	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p3", "v1", 2)
	require.NoError(t, err)
	_, err = env.competitions.SubmitRating(ctx, competition.ID, "p3", "v2", 4)
	require.NoError(t, err)

	results, err := env.competitions.Results(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "p2", results[0].ParticipantID)
	assert.Equal(t, 5.0, results[0].AverageRating)
	// ties keep first-vote order: p1 received its first vote before p3
	assert.Equal(t, "p1", results[1].ParticipantID)
	assert.Equal(t, "p3", results[2].ParticipantID)
	assert.Equal(t, 2, results[2].VoteCount)
}

func TestChatService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	competition := env.newCompetition(t, 5)

	message, err := env.chat.Send(ctx, competition.ID, "u1", "alice", "hello room")
	require.NoError(t, err)
	assert.False(t, message.IsModerated)

	_, err = env.chat.Send(ctx, "missing", "u1", "alice", "hello")
	assert.ErrorIs(t, err, models.ErrCompetitionNotFound)

	require.NoError(t, env.chat.Moderate(ctx, message.ID))
	// moderation is a soft flag, the message stays listed
	messages, err := env.chat.List(ctx, competition.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsModerated)

	err = env.chat.Moderate(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrMessageNotFound)

	assert.Contains(t, env.broadcast.types(competition.ID), EventNewMessage)
}
