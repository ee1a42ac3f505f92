// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import "context"

// Repository is the Item Store: durable, concurrently accessed storage of things.
//
// Counter updates must be atomic in the store itself (a single UPDATE), never a
// read followed by a write. Methods return [ErrNotFound] for unknown ids and
// storage failures classified by dberr.
type Repository interface {
	// Insert stores t, sets its ID and CreatedAt, and returns the new id.
	// A name_key collision yields dberr.ErrUniqueViolation.
	Insert(context context.Context, t *Thing) (int64, error)

	// FindByID returns the thing with the given id.
	FindByID(context context.Context, id int64) (*Thing, error)

	// ExistsByName reports whether a thing with the same name key exists.
	ExistsByName(context context.Context, nameKey string) (bool, error)

	// IncrementLike adds one to the thing's likes.
	IncrementLike(context context.Context, id int64) error

	// IncrementDislike adds one to the thing's dislikes.
	IncrementDislike(context context.Context, id int64) error

	// Count returns how many things pass the adult filter.
	Count(context context.Context, includeAdult bool) (int, error)

	// FindAtPositions returns the things at the given zero-based positions of the
	// filtered set ordered by id, in the order the positions were given. All rows
	// come from one consistent snapshot. Positions past the end are skipped.
	FindAtPositions(context context.Context, includeAdult bool, positions []int) ([]*Thing, error)

	// Search returns things matching q.
	Search(context context.Context, q SearchQuery) ([]*Thing, error)

	// Ping reports whether the store is reachable.
	Ping(context context.Context) error
}

// VoteApplier is implemented by stores that can record a full vote atomically.
type VoteApplier interface {
	// ApplyVote increments the winner's likes and the loser's dislikes in one
	// transaction. Either both counters change or neither does.
	ApplyVote(context context.Context, winnerID, loserID int64) error
}
