// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package thing implements the comparison and ranking engine.

Users submit named items ("things"), are shown two random things at a time,
pick the one they prefer, and search the pool ordered by how often each thing
won its comparisons.

Core Responsibility:

  - Submission: validates a new thing (presence, unique name, reachable image) before it enters the pool.
  - Sampling: draws uniformly random pairs of distinct things under the adult-content filter.
  - Voting: records one win and one loss with atomic counter updates.
  - Search: filters by name and orders by [ranking.Score].

Storage is behind [Repository], with PostgreSQL and SQLite implementations.
*/
package thing

import (
	"encoding/json"
	"time"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
	"github.com/taibuivan/rankeverything/pkg/ranking"
)

// # Domain Entity

// Thing is a user-submitted item that takes part in comparisons.
type Thing struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	NameKey     string    `json:"-"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	Adult       bool      `json:"adult"`
	CreatedAt   time.Time `json:"created_at"`
}

// Score is the thing's ranking value, derived from its counters.
func (t *Thing) Score() float64 {
	return ranking.Score(t.Likes, t.Dislikes)
}

// MarshalJSON adds the derived score to the stored fields.
func (t *Thing) MarshalJSON() ([]byte, error) {
	type stored Thing
	return json.Marshal(struct {
		stored
		Score float64 `json:"score"`
	}{
		stored: stored(*t),
		Score:  t.Score(),
	})
}

// Pair is two distinct things offered for one comparison.
type Pair [2]*Thing

// # Inputs

// Submission carries a candidate thing as received from a client.
// Adult is a pointer so that an omitted flag can be told apart from false.
type Submission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Adult       *bool  `json:"adult"`
}

// Vote is one pairwise preference.
type Vote struct {
	WinnerID int64 `json:"winner_id"`
	LoserID  int64 `json:"loser_id"`
}

// SearchQuery selects and orders things.
type SearchQuery struct {
	// Text matches any thing whose name contains it, ignoring case. Empty matches all.
	Text string
	// IncludeAdult admits adult things into the results.
	IncludeAdult bool
	// Ascending orders from lowest to highest score. Ties always break by id ascending.
	Ascending bool
	// Limit caps the number of results.
	Limit int
}

// # Limits

const (
	// SearchLimit is the fixed maximum number of search results.
	SearchLimit = 10

	// MaxDescriptionBytes matches the legacy TEXT column the pool was built on.
	MaxDescriptionBytes = 65535
)

// # Field Identifiers

const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldImageURL    = "image_url"
	FieldAdult       = "adult"
	FieldWinnerID    = "winner_id"
	FieldLoserID     = "loser_id"
)

// # Failure Reasons

const (
	// ReasonDuplicateName is reported when the name collides with an existing thing.
	ReasonDuplicateName = "DuplicateName"

	// ReasonInvalidImage is reported when the image URL does not resolve to an image.
	ReasonInvalidImage = "InvalidImage"
)

// # Domain Errors

var (
	// ErrNotFound is returned when a thing id does not exist.
	ErrNotFound = apperr.NotFound("Thing")

	// ErrInsufficientItems is returned when fewer than two things pass the filter.
	ErrInsufficientItems = apperr.InsufficientItems("At least two things are needed for a comparison")

	// ErrPartialVote is returned when the winner's like was recorded but the loser's dislike was not.
	ErrPartialVote = apperr.PartialFailure("The vote was only partially recorded", nil)

	// ErrDuplicateName is the validation failure for a name that is already taken.
	ErrDuplicateName = validate.FieldFailure(FieldName, ReasonDuplicateName, "A thing with this name already exists")

	// ErrInvalidImage is the validation failure for an image URL that failed its probe.
	ErrInvalidImage = validate.FieldFailure(FieldImageURL, ReasonInvalidImage, "The image URL does not point to an image")
)
