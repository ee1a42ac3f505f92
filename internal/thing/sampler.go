// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/taibuivan/rankeverything/internal/platform/metrics"
)

// # Pair Sampling

// Sampler draws comparison pairs uniformly at random from the filtered pool.
//
// Every unordered pair of distinct eligible things is equally likely. The draw
// depends only on the size of the pool, never on votes, scores or ids.
type Sampler struct {
	repo Repository
	intN func(n int) int
}

// NewSampler builds a [Sampler]. intN must return a uniform integer in [0, n);
// nil selects math/rand/v2, which is safe for concurrent use.
func NewSampler(repo Repository, intN func(n int) int) *Sampler {
	if intN == nil {
		intN = rand.IntN
	}
	return &Sampler{repo: repo, intN: intN}
}

/*
Sample returns two distinct things that pass the adult filter.

Description: The first position is drawn from all n eligible things, the second
from the remaining n-1 (by skipping over the first). Both rows are then read
together from one snapshot. Things are never deleted, so positions below the
counted n stay valid even while new things are inserted.

Returns:
  - Pair: Two distinct things, in draw order
  - error: ErrInsufficientItems when fewer than two things are eligible
*/
func (sampler *Sampler) Sample(context context.Context, includeAdult bool) (Pair, error) {
	count, err := sampler.repo.Count(context, includeAdult)
	if err != nil {
		return Pair{}, err
	}
	if count < 2 {
		return Pair{}, ErrInsufficientItems
	}

	first := sampler.intN(count)
	second := sampler.intN(count - 1)
	if second >= first {
		second++
	}

	things, err := sampler.repo.FindAtPositions(context, includeAdult, []int{first, second})
	if err != nil {
		return Pair{}, err
	}
	if len(things) < 2 || things[0].ID == things[1].ID {
		return Pair{}, ErrInsufficientItems
	}

	return Pair{things[0], things[1]}, nil
}

/*
ComparisonPair returns a random pair of distinct things for the user to compare.

Parameters:
  - context: context.Context
  - includeAdult: bool (Admit adult things into the draw)

Returns:
  - Pair: Two distinct things
  - error: ErrInsufficientItems or STORAGE_UNAVAILABLE
*/
func (service *Service) ComparisonPair(context context.Context, includeAdult bool) (Pair, error) {
	pair, err := service.sampler.Sample(context, includeAdult)
	if err != nil {
		if errors.Is(err, ErrInsufficientItems) {
			service.metrics.PairServed(metrics.OutcomeInsufficient)
		} else {
			service.metrics.PairServed(metrics.OutcomeError)
		}
		return Pair{}, err
	}

	service.metrics.PairServed(metrics.OutcomeOK)
	return pair, nil
}
