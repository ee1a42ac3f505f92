// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package thing_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/rankeverything/internal/platform/apperr"
	"github.com/taibuivan/rankeverything/internal/platform/imageprobe"
	"github.com/taibuivan/rankeverything/internal/platform/metrics"
	"github.com/taibuivan/rankeverything/internal/platform/validate"
	"github.com/taibuivan/rankeverything/internal/thing"
)

// acceptImages is a prober that accepts every URL.
var acceptImages = imageprobe.ProberFunc(func(context.Context, string) error { return nil })

func newService(repo thing.Repository, prober imageprobe.Prober) *thing.Service {
	return thing.NewService(repo, prober, metrics.New(), discardLogger())
}

func boolPtr(b bool) *bool { return &b }

func validSubmission(name string) thing.Submission {
	return thing.Submission{
		Name:        name,
		Description: "A thing called " + name,
		ImageURL:    "https://img.example.com/" + strings.ToLower(name) + ".png",
		Adult:       boolPtr(false),
	}
}

// fieldError extracts the single detail of a validation failure.
func fieldError(t *testing.T, err error) apperr.FieldError {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	require.Equal(t, apperr.CodeValidation, ae.Code)
	require.Len(t, ae.Details, 1)
	return ae.Details[0]
}

/*
TestSubmit_ToyotaScenario walks the duplicate-name story end to end.
*/
func TestSubmit_ToyotaScenario(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo, acceptImages)
	ctx := context.Background()

	// 1. First submission is accepted
	id, err := service.Submit(ctx, validSubmission("Toyota"))
	require.NoError(t, err)
	assert.Positive(t, id)

	// 2. Same name again is a duplicate
	_, err = service.Submit(ctx, validSubmission("Toyota"))
	detail := fieldError(t, err)
	assert.Equal(t, thing.FieldName, detail.Field)
	assert.Equal(t, thing.ReasonDuplicateName, detail.Reason)

	// 3. Names collide regardless of case
	_, err = service.Submit(ctx, validSubmission("  TOYOTA "))
	assert.ErrorIs(t, err, thing.ErrDuplicateName)

	// 4. The stored name keeps the submitter's casing, trimmed
	stored, err := service.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", stored.Name)
	assert.Zero(t, stored.Likes)
	assert.Zero(t, stored.Dislikes)
}

/*
TestSubmit_ValidationOrder reports only the first failing check.
*/
func TestSubmit_ValidationOrder(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*thing.Submission)
		wantField  string
		wantReason string
	}{
		{"missing_name", func(s *thing.Submission) { s.Name = "  " }, thing.FieldName, validate.ReasonMissing},
		{"missing_everything", func(s *thing.Submission) { *s = thing.Submission{} }, thing.FieldName, validate.ReasonMissing},
		{"missing_description", func(s *thing.Submission) { s.Description = "" }, thing.FieldDescription, validate.ReasonMissing},
		{"missing_image", func(s *thing.Submission) { s.ImageURL = "" }, thing.FieldImageURL, validate.ReasonMissing},
		{"missing_adult", func(s *thing.Submission) { s.Adult = nil }, thing.FieldAdult, validate.ReasonMissing},
		{"description_too_long", func(s *thing.Submission) {
			s.Description = strings.Repeat("x", thing.MaxDescriptionBytes+1)
		}, thing.FieldDescription, validate.ReasonInvalid},
		{"image_not_url", func(s *thing.Submission) { s.ImageURL = "cat.png" }, thing.FieldImageURL, validate.ReasonInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			service := newService(repo, acceptImages)

			submission := validSubmission("Toyota")
			tt.mutate(&submission)

			_, err := service.Submit(context.Background(), submission)
			detail := fieldError(t, err)
			assert.Equal(t, tt.wantField, detail.Field)
			assert.Equal(t, tt.wantReason, detail.Reason)

			count, _ := repo.Count(context.Background(), true)
			assert.Zero(t, count)
		})
	}
}

/*
TestSubmit_DescriptionAtLimit accepts exactly the column size.
*/
func TestSubmit_DescriptionAtLimit(t *testing.T) {
	service := newService(newMemoryRepository(), acceptImages)

	submission := validSubmission("Long")
	submission.Description = strings.Repeat("x", thing.MaxDescriptionBytes)

	_, err := service.Submit(context.Background(), submission)
	assert.NoError(t, err)
}

/*
TestSubmit_InvalidImage rejects URLs that fail the probe and stores nothing.
*/
func TestSubmit_InvalidImage(t *testing.T) {
	repo := newMemoryRepository()
	var probed atomic.Int32
	prober := imageprobe.ProberFunc(func(context.Context, string) error {
		probed.Add(1)
		return fmt.Errorf("%w: content type text/html", imageprobe.ErrNotImage)
	})
	service := newService(repo, prober)

	_, err := service.Submit(context.Background(), validSubmission("Honda"))

	detail := fieldError(t, err)
	assert.Equal(t, thing.FieldImageURL, detail.Field)
	assert.Equal(t, thing.ReasonInvalidImage, detail.Reason)
	assert.ErrorIs(t, err, imageprobe.ErrNotImage)
	assert.Equal(t, int32(1), probed.Load())

	count, _ := repo.Count(context.Background(), true)
	assert.Zero(t, count)
}

/*
TestSubmit_DuplicateSkipsProbe never probes a name that is already taken.
*/
func TestSubmit_DuplicateSkipsProbe(t *testing.T) {
	repo := newMemoryRepository()
	repo.seed("Toyota", false, 0, 0)

	prober := imageprobe.ProberFunc(func(context.Context, string) error {
		t.Fatal("probe must not run for a duplicate name")
		return nil
	})

	_, err := newService(repo, prober).Submit(context.Background(), validSubmission("toyota"))
	assert.ErrorIs(t, err, thing.ErrDuplicateName)
}

/*
TestSubmit_ConcurrentIdenticalNames lets exactly one of many racing submissions win.
*/
func TestSubmit_ConcurrentIdenticalNames(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo, acceptImages)

	const workers = 32
	var (
		wg         sync.WaitGroup
		successes  atomic.Int32
		duplicates atomic.Int32
		start      = make(chan struct{})
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			name := "Toyota"
			if i%2 == 1 {
				name = "TOYOTA"
			}

			_, err := service.Submit(context.Background(), validSubmission(name))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, thing.ErrDuplicateName):
				duplicates.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), duplicates.Load())

	count, _ := repo.Count(context.Background(), true)
	assert.Equal(t, 1, count)
}

/*
TestSubmit_StorageFailure surfaces the store's error unchanged.
*/
func TestSubmit_StorageFailure(t *testing.T) {
	repo := &failingExistsRepository{memoryRepository: newMemoryRepository()}

	_, err := newService(repo, acceptImages).Submit(context.Background(), validSubmission("Toyota"))
	assert.True(t, apperr.HasCode(err, apperr.CodeStorageUnavailable))
}

type failingExistsRepository struct {
	*memoryRepository
}

func (repo *failingExistsRepository) ExistsByName(context.Context, string) (bool, error) {
	return false, apperr.StorageUnavailable(errors.New("connection reset"))
}

/*
TestGet_NotFound covers unknown and non-positive ids.
*/
func TestGet_NotFound(t *testing.T) {
	service := newService(newMemoryRepository(), acceptImages)

	for _, id := range []int64{0, -3, 42} {
		_, err := service.Get(context.Background(), id)
		assert.ErrorIs(t, err, thing.ErrNotFound, "id %d", id)
	}
}

/*
TestThing_JSONIncludesScore renders the derived score next to the counters.
*/
func TestThing_JSONIncludesScore(t *testing.T) {
	item := &thing.Thing{ID: 1, Name: "Toyota", NameKey: "toyota", Likes: 3, Dislikes: 1}

	body, err := item.MarshalJSON()
	require.NoError(t, err)

	assert.Contains(t, string(body), `"score":0.75`)
	assert.Contains(t, string(body), `"likes":3`)
	assert.NotContains(t, string(body), "name_key")
	assert.NotContains(t, string(body), "NameKey")
}
