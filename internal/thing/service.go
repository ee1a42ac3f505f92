// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/rankeverything/internal/platform/dberr"
	"github.com/taibuivan/rankeverything/internal/platform/imageprobe"
	"github.com/taibuivan/rankeverything/internal/platform/metrics"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
	"github.com/taibuivan/rankeverything/pkg/namekey"
)

// # Service Layer

// Service is the comparison and ranking engine. It owns no state of its own:
// everything shared lives in the [Repository], so one Service serves any number
// of concurrent requests.
type Service struct {
	repo    Repository
	prober  imageprobe.Prober
	sampler *Sampler
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewService constructs a new [Service]. metrics may be nil.
func NewService(repo Repository, prober imageprobe.Prober, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		prober:  prober,
		sampler: NewSampler(repo, nil),
		metrics: metrics,
		logger:  logger,
	}
}

// # Lookups

/*
Get fetches a single thing by id.

Returns:
  - *Thing: The stored thing
  - error: ErrNotFound if no thing has this id
*/
func (service *Service) Get(context context.Context, id int64) (*Thing, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return service.repo.FindByID(context, id)
}

// # Submission

/*
Submit validates a candidate thing and, if it passes, adds it to the pool.

Description: The checks run in a fixed order and stop at the first failure,
which is reported as a single field error:

 1. Presence: name, description, image_url and adult are all given, and the
    strings are non-blank. The description fits the column and image_url is a URL.
 2. Uniqueness: no existing thing has the same name, ignoring case.
 3. Image: image_url answers as an image.
 4. Insert: a concurrent submission of the same name that won the race is
    reported as the same duplicate-name failure.

Parameters:
  - context: context.Context
  - submission: Submission (As received from the client)

Returns:
  - int64: The id of the new thing
  - error: VALIDATION_ERROR with one detail, or STORAGE_UNAVAILABLE
*/
func (service *Service) Submit(context context.Context, submission Submission) (int64, error) {
	name := namekey.Normalize(submission.Name)
	description := strings.TrimSpace(submission.Description)
	imageURL := strings.TrimSpace(submission.ImageURL)

	// 1. Presence and format
	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		Required(FieldDescription, description).
		Required(FieldImageURL, imageURL).
		Present(FieldAdult, submission.Adult != nil).
		MaxBytes(FieldDescription, description, MaxDescriptionBytes).
		URL(FieldImageURL, imageURL)

	if err := validator.FirstErr(); err != nil {
		service.metrics.ThingSubmitted(metrics.OutcomeRejected)
		return 0, err
	}

	key := namekey.Key(name)

	// 2. Duplicate name
	exists, err := service.repo.ExistsByName(context, key)
	if err != nil {
		service.metrics.ThingSubmitted(metrics.OutcomeError)
		return 0, err
	}
	if exists {
		service.metrics.ThingSubmitted(metrics.OutcomeRejected)
		return 0, ErrDuplicateName
	}

	// 3. Image probe
	if err := service.prober.Probe(context, imageURL); err != nil {
		service.metrics.ImageProbed(metrics.OutcomeRejected)
		service.metrics.ThingSubmitted(metrics.OutcomeRejected)
		service.logger.Info("image_probe_failed",
			slog.String("image_url", imageURL),
			slog.String("error", err.Error()),
		)
		return 0, ErrInvalidImage.WithCause(err)
	}
	service.metrics.ImageProbed(metrics.OutcomeOK)

	// 4. Persist
	thing := &Thing{
		Name:        name,
		NameKey:     key,
		ImageURL:    imageURL,
		Description: description,
		Adult:       *submission.Adult,
	}

	id, err := service.repo.Insert(context, thing)
	if err != nil {
		if errors.Is(err, dberr.ErrUniqueViolation) {
			service.metrics.ThingSubmitted(metrics.OutcomeRejected)
			return 0, ErrDuplicateName.WithCause(err)
		}
		service.metrics.ThingSubmitted(metrics.OutcomeError)
		return 0, err
	}

	service.metrics.ThingSubmitted(metrics.OutcomeOK)
	service.logger.Info("thing_submitted",
		slog.Int64("thing_id", id),
		slog.String("name", name),
		slog.Bool("adult", thing.Adult),
	)

	return id, nil
}
