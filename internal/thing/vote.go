// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/metrics"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
)

// # Vote Recording

/*
RecordVote records that the user preferred one thing over another.

Description: The winner gains one like and the loser one dislike. Each counter
is changed by a single atomic statement in the store, so concurrent votes on
the same things never lose an update. No application lock is taken.

Steps:
 1. Both ids must be positive and different.
 2. Both things must exist; otherwise nothing is recorded.
 3. Stores that implement [VoteApplier] apply both counters in one transaction.
 4. Otherwise the like is applied, then the dislike. If only the like succeeds
    the caller gets ErrPartialVote.

Parameters:
  - context: context.Context
  - vote: Vote (winner and loser ids)

Returns:
  - error: VALIDATION_ERROR, NOT_FOUND, PARTIAL_VOTE_FAILURE or STORAGE_UNAVAILABLE
*/
func (service *Service) RecordVote(context context.Context, vote Vote) error {

	// 1. Identity validation
	validator := &validate.Validator{}
	validator.
		Positive(FieldWinnerID, vote.WinnerID).
		Positive(FieldLoserID, vote.LoserID).
		Custom(FieldLoserID, vote.WinnerID == vote.LoserID, validate.ReasonInvalid, "The loser must differ from the winner")

	if err := validator.FirstErr(); err != nil {
		service.metrics.VoteRecorded(metrics.OutcomeRejected)
		return err
	}

	// 2. Existence
	for _, id := range []int64{vote.WinnerID, vote.LoserID} {
		if _, err := service.repo.FindByID(context, id); err != nil {
			service.observeVoteFailure(err)
			return err
		}
	}

	// 3. and 4. Apply
	if err := service.applyVote(context, vote); err != nil {
		service.observeVoteFailure(err)
		if errors.Is(err, ErrPartialVote) {
			service.logger.Error("vote_partially_recorded",
				slog.Int64("winner_id", vote.WinnerID),
				slog.Int64("loser_id", vote.LoserID),
				slog.Any("error", err),
			)
		}
		return err
	}

	service.metrics.VoteRecorded(metrics.OutcomeOK)
	service.logger.Debug("vote_recorded",
		slog.Int64("winner_id", vote.WinnerID),
		slog.Int64("loser_id", vote.LoserID),
	)

	return nil
}

// applyVote picks the transactional path when the store offers one.
func (service *Service) applyVote(context context.Context, vote Vote) error {
	if applier, ok := service.repo.(VoteApplier); ok {
		return applier.ApplyVote(context, vote.WinnerID, vote.LoserID)
	}

	if err := service.repo.IncrementLike(context, vote.WinnerID); err != nil {
		return err
	}

	if err := service.repo.IncrementDislike(context, vote.LoserID); err != nil {
		return ErrPartialVote.WithCause(fmt.Errorf("like on %d applied, dislike on %d failed: %w",
			vote.WinnerID, vote.LoserID, err))
	}

	return nil
}

// observeVoteFailure maps a failed vote to its metric outcome.
func (service *Service) observeVoteFailure(err error) {
	switch {
	case errors.Is(err, ErrNotFound), apperr.HasCode(err, apperr.CodeNotFound):
		service.metrics.VoteRecorded(metrics.OutcomeNotFound)
	case errors.Is(err, ErrPartialVote):
		service.metrics.VoteRecorded(metrics.OutcomePartial)
	default:
		service.metrics.VoteRecorded(metrics.OutcomeError)
	}
}
