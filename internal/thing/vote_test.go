// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
	"github.com/taibuivan/rankeverything/internal/thing"
)

/*
TestRecordVote_Counters gives the winner a like and the loser a dislike.
*/
func TestRecordVote_Counters(t *testing.T) {
	repo := newMemoryRepository()
	winner := repo.seed("Toyota", false, 0, 0)
	loser := repo.seed("Honda", false, 0, 0)
	service := newService(repo, acceptImages)

	require.NoError(t, service.RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: loser}))

	assert.Equal(t, int64(1), repo.snapshot(winner).Likes)
	assert.Equal(t, int64(0), repo.snapshot(winner).Dislikes)
	assert.Equal(t, int64(1), repo.snapshot(loser).Dislikes)
	assert.Equal(t, int64(0), repo.snapshot(loser).Likes)
}

/*
TestRecordVote_Validation rejects self-votes and non-positive ids.
*/
func TestRecordVote_Validation(t *testing.T) {
	repo := newMemoryRepository()
	id := repo.seed("Toyota", false, 0, 0)
	service := newService(repo, acceptImages)

	tests := []struct {
		name       string
		vote       thing.Vote
		wantField  string
		wantReason string
	}{
		{"same_thing", thing.Vote{WinnerID: id, LoserID: id}, thing.FieldLoserID, validate.ReasonInvalid},
		{"zero_winner", thing.Vote{WinnerID: 0, LoserID: id}, thing.FieldWinnerID, validate.ReasonInvalid},
		{"negative_loser", thing.Vote{WinnerID: id, LoserID: -1}, thing.FieldLoserID, validate.ReasonInvalid},
		{"zero_both", thing.Vote{WinnerID: 0, LoserID: 0}, thing.FieldWinnerID, validate.ReasonInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.RecordVote(context.Background(), tt.vote)
			detail := fieldError(t, err)
			assert.Equal(t, tt.wantField, detail.Field)
			assert.Equal(t, tt.wantReason, detail.Reason)
		})
	}

	assert.Zero(t, repo.snapshot(id).Likes)
	assert.Zero(t, repo.snapshot(id).Dislikes)
}

/*
TestRecordVote_UnknownThing applies nothing when either id is missing.
*/
func TestRecordVote_UnknownThing(t *testing.T) {
	repo := newMemoryRepository()
	winner := repo.seed("Toyota", false, 0, 0)
	service := newService(repo, acceptImages)

	err := service.RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: 999})
	assert.ErrorIs(t, err, thing.ErrNotFound)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	assert.Zero(t, repo.snapshot(winner).Likes)
}

/*
TestRecordVote_PartialFailure reports a like that landed without its dislike.
*/
func TestRecordVote_PartialFailure(t *testing.T) {
	repo := newMemoryRepository()
	winner := repo.seed("Toyota", false, 0, 0)
	loser := repo.seed("Honda", false, 0, 0)
	repo.dislikeErr = apperr.StorageUnavailable(errors.New("connection lost"))
	service := newService(repo, acceptImages)

	err := service.RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: loser})

	require.ErrorIs(t, err, thing.ErrPartialVote)
	assert.True(t, apperr.HasCode(err, apperr.CodePartialFailure))
	assert.ErrorIs(t, apperr.As(err).Cause, repo.dislikeErr)
	assert.Equal(t, int64(1), repo.snapshot(winner).Likes)
	assert.Equal(t, int64(0), repo.snapshot(loser).Dislikes)
}

/*
TestRecordVote_FirstStepFailure applies nothing when the like fails.
*/
func TestRecordVote_FirstStepFailure(t *testing.T) {
	repo := newMemoryRepository()
	winner := repo.seed("Toyota", false, 0, 0)
	loser := repo.seed("Honda", false, 0, 0)
	repo.likeErr = apperr.StorageUnavailable(errors.New("read only"))

	err := newService(repo, acceptImages).RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: loser})

	assert.True(t, apperr.HasCode(err, apperr.CodeStorageUnavailable))
	assert.False(t, errors.Is(err, thing.ErrPartialVote))
	assert.Zero(t, repo.snapshot(loser).Dislikes)
}

/*
TestRecordVote_UsesTransactionalStore prefers ApplyVote when the store offers it.
*/
func TestRecordVote_UsesTransactionalStore(t *testing.T) {
	repo := &transactionalRepository{memoryRepository: newMemoryRepository()}
	winner := repo.seed("Toyota", false, 0, 0)
	loser := repo.seed("Honda", false, 0, 0)
	service := newService(repo, acceptImages)

	require.NoError(t, service.RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: loser}))
	assert.Equal(t, 1, repo.applied)

	// A failing transaction leaves both counters untouched.
	repo.dislikeErr = apperr.StorageUnavailable(errors.New("serialization failure"))
	err := service.RecordVote(context.Background(), thing.Vote{WinnerID: winner, LoserID: loser})
	assert.True(t, apperr.HasCode(err, apperr.CodeStorageUnavailable))
	assert.Equal(t, int64(1), repo.snapshot(winner).Likes)
	assert.Equal(t, int64(1), repo.snapshot(loser).Dislikes)
}

/*
TestRecordVote_Concurrent keeps exact totals under many simultaneous voters.
*/
func TestRecordVote_Concurrent(t *testing.T) {
	repo := newMemoryRepository()
	a := repo.seed("Toyota", false, 0, 0)
	b := repo.seed("Honda", false, 0, 0)
	c := repo.seed("Mazda", false, 0, 0)
	d := repo.seed("Subaru", false, 0, 0)
	service := newService(repo, acceptImages)

	const voters, votesEach = 40, 25
	var wg sync.WaitGroup

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vote := thing.Vote{WinnerID: a, LoserID: b}
			if i%4 == 0 {
				vote = thing.Vote{WinnerID: b, LoserID: a}
			}
			other := thing.Vote{WinnerID: c, LoserID: d}
			for j := 0; j < votesEach; j++ {
				if err := service.RecordVote(context.Background(), vote); err != nil {
					t.Errorf("vote failed: %v", err)
				}
				if err := service.RecordVote(context.Background(), other); err != nil {
					t.Errorf("vote failed: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	// 10 of the 40 voters prefer b.
	aWins := int64(30 * votesEach)
	bWins := int64(10 * votesEach)

	assert.Equal(t, aWins, repo.snapshot(a).Likes)
	assert.Equal(t, bWins, repo.snapshot(a).Dislikes)
	assert.Equal(t, bWins, repo.snapshot(b).Likes)
	assert.Equal(t, aWins, repo.snapshot(b).Dislikes)

	// The disjoint pair saw every voter once per round.
	total := int64(voters * votesEach)
	assert.Equal(t, total, repo.snapshot(c).Likes)
	assert.Equal(t, total, repo.snapshot(d).Dislikes)
	for _, id := range []int64{a, b, c, d} {
		snapshot := repo.snapshot(id)
		assert.Equal(t, total, snapshot.Likes+snapshot.Dislikes)
	}
}
