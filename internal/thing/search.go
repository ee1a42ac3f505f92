// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"

	"github.com/taibuivan/rankeverything/pkg/namekey"
)

// # Search

/*
Search lists things whose name contains text, ignoring case.

Description: Results are ordered by score, highest first unless ascending is
set, with ties broken by id ascending in both directions. Things that were
never compared sort as the lowest score. At most [SearchLimit] things are
returned; the cap is not caller-controlled.

Parameters:
  - context: context.Context
  - text: string (Empty matches every thing)
  - includeAdult: bool
  - ascending: bool

Returns:
  - []*Thing: Up to SearchLimit things, possibly empty
  - error: STORAGE_UNAVAILABLE on store failure
*/
func (service *Service) Search(context context.Context, text string, includeAdult, ascending bool) ([]*Thing, error) {
	return service.repo.Search(context, SearchQuery{
		Text:         namekey.Key(text),
		IncludeAdult: includeAdult,
		Ascending:    ascending,
		Limit:        SearchLimit,
	})
}
