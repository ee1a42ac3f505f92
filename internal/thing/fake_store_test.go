// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/rankeverything/internal/platform/dberr"
	"github.com/taibuivan/rankeverything/internal/thing"
	"github.com/taibuivan/rankeverything/pkg/namekey"
)

// memoryRepository is an in-process [thing.Repository] guarded by one mutex.
// It deliberately does not implement [thing.VoteApplier].
type memoryRepository struct {
	mu     sync.Mutex
	things []*thing.Thing
	nextID int64

	// Injected failures
	likeErr    error
	dislikeErr error
	countErr   error

	lastSearch thing.SearchQuery
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{}
}

// seed inserts a thing directly, bypassing the service.
func (repo *memoryRepository) seed(name string, adult bool, likes, dislikes int64) int64 {
	t := &thing.Thing{
		Name:        name,
		NameKey:     namekey.Key(name),
		ImageURL:    "https://img.example.com/" + name + ".png",
		Description: name + " description",
		Adult:       adult,
	}
	id, err := repo.Insert(context.Background(), t)
	if err != nil {
		panic(err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored := repo.find(id)
	stored.Likes, stored.Dislikes = likes, dislikes
	return id
}

func (repo *memoryRepository) find(id int64) *thing.Thing {
	for _, t := range repo.things {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (repo *memoryRepository) filtered(includeAdult bool) []*thing.Thing {
	out := make([]*thing.Thing, 0, len(repo.things))
	for _, t := range repo.things {
		if includeAdult || !t.Adult {
			out = append(out, t)
		}
	}
	return out
}

func clone(t *thing.Thing) *thing.Thing {
	c := *t
	return &c
}

func (repo *memoryRepository) Insert(_ context.Context, t *thing.Thing) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.things {
		if existing.NameKey == t.NameKey {
			return 0, dberr.ErrUniqueViolation
		}
	}

	repo.nextID++
	t.ID = repo.nextID
	t.CreatedAt = time.Now()
	repo.things = append(repo.things, clone(t))
	return t.ID, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id int64) (*thing.Thing, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if t := repo.find(id); t != nil {
		return clone(t), nil
	}
	return nil, thing.ErrNotFound
}

func (repo *memoryRepository) ExistsByName(_ context.Context, nameKey string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, t := range repo.things {
		if t.NameKey == nameKey {
			return true, nil
		}
	}
	return false, nil
}

func (repo *memoryRepository) IncrementLike(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.likeErr != nil {
		return repo.likeErr
	}
	t := repo.find(id)
	if t == nil {
		return thing.ErrNotFound
	}
	t.Likes++
	return nil
}

func (repo *memoryRepository) IncrementDislike(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.dislikeErr != nil {
		return repo.dislikeErr
	}
	t := repo.find(id)
	if t == nil {
		return thing.ErrNotFound
	}
	t.Dislikes++
	return nil
}

func (repo *memoryRepository) Count(_ context.Context, includeAdult bool) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.countErr != nil {
		return 0, repo.countErr
	}
	return len(repo.filtered(includeAdult)), nil
}

func (repo *memoryRepository) FindAtPositions(_ context.Context, includeAdult bool, positions []int) ([]*thing.Thing, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	pool := repo.filtered(includeAdult)
	out := make([]*thing.Thing, 0, len(positions))
	for _, position := range positions {
		if position >= 0 && position < len(pool) {
			out = append(out, clone(pool[position]))
		}
	}
	return out, nil
}

func (repo *memoryRepository) Search(_ context.Context, q thing.SearchQuery) ([]*thing.Thing, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.lastSearch = q

	matches := make([]*thing.Thing, 0)
	for _, t := range repo.filtered(q.IncludeAdult) {
		if strings.Contains(t.NameKey, q.Text) {
			matches = append(matches, clone(t))
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].Score(), matches[j].Score()
		if si != sj {
			if q.Ascending {
				return si < sj
			}
			return si > sj
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

func (repo *memoryRepository) Ping(context.Context) error {
	return nil
}

// snapshot returns a copy of the stored thing for assertions.
func (repo *memoryRepository) snapshot(id int64) thing.Thing {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return *repo.find(id)
}

// transactionalRepository adds an all-or-nothing ApplyVote to the memory store.
type transactionalRepository struct {
	*memoryRepository
	applied int
}

func (repo *transactionalRepository) ApplyVote(_ context.Context, winnerID, loserID int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	winner, loser := repo.find(winnerID), repo.find(loserID)
	if winner == nil || loser == nil {
		return thing.ErrNotFound
	}
	if repo.dislikeErr != nil {
		return repo.dislikeErr
	}

	winner.Likes++
	loser.Dislikes++
	repo.applied++
	return nil
}

// discardLogger keeps test output quiet.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
