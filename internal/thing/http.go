// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/rankeverything/internal/platform/request"
	"github.com/taibuivan/rankeverything/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer of the ranking engine.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new thing [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the engine endpoints on router.
//
// The static /things/pair and /things/search routes take precedence over /things/{id}.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/things", handler.submitThing)
	router.Get("/things/pair", handler.getComparisonPair)
	router.Get("/things/search", handler.search)
	router.Get("/things/{id}", handler.getThing)
	router.Post("/votes", handler.recordVote)
}

// RegisterLegacyRoutes mounts the pre-v1 paths kept for older clients.
func (handler *Handler) RegisterLegacyRoutes(router chi.Router) {
	router.Get("/get_comparison", handler.getComparisonPair)
}

// # Endpoints

/*
POST /api/v1/things.

Description: Submits a new thing. Validation stops at the first failed check.

Request:
  - name: string
  - description: string
  - image_url: string
  - adult: bool

Response:
  - 201: {"id": int}
  - 400: VALIDATION_ERROR with one detail (Missing, Invalid, DuplicateName, InvalidImage)
*/
func (handler *Handler) submitThing(writer http.ResponseWriter, request *http.Request) {
	var submission Submission
	if err := requestutil.DecodeJSON(writer, request, &submission); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := handler.service.Submit(request.Context(), submission)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]int64{FieldID: id})
}

/*
GET /api/v1/things/pair.

Request:
  - adult: bool (default false)

Response:
  - 200: [Thing, Thing]
  - 409: INSUFFICIENT_ITEMS
*/
func (handler *Handler) getComparisonPair(writer http.ResponseWriter, request *http.Request) {
	includeAdult := requestutil.Flag(request, FieldAdult, false)

	pair, err := handler.service.ComparisonPair(request.Context(), includeAdult)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pair)
}

/*
POST /api/v1/votes.

Request:
  - winner_id: int
  - loser_id: int

Response:
  - 200: {"status": "recorded"}
  - 400: VALIDATION_ERROR
  - 404: NOT_FOUND
  - 500: PARTIAL_VOTE_FAILURE
*/
func (handler *Handler) recordVote(writer http.ResponseWriter, request *http.Request) {
	var vote Vote
	if err := requestutil.DecodeJSON(writer, request, &vote); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RecordVote(request.Context(), vote); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "recorded"})
}

/*
GET /api/v1/things/search.

Request:
  - q: string (substring of the name, case-insensitive)
  - adult: bool (default false)
  - asc: bool (default false, highest score first)

Response:
  - 200: []Thing (at most 10)
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	text := request.URL.Query().Get("q")
	includeAdult := requestutil.Flag(request, FieldAdult, false)
	ascending := requestutil.Flag(request, "asc", false)

	things, err := handler.service.Search(request.Context(), text, includeAdult, ascending)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, things)
}

/*
GET /api/v1/things/{id}.

Response:
  - 200: Thing
  - 400: VALIDATION_ERROR for a non-numeric id
  - 404: NOT_FOUND
*/
func (handler *Handler) getThing(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	thing, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, thing)
}
