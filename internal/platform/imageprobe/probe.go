// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package imageprobe checks that a submitted URL resolves to an image.

A probe is a bounded outbound request: the remote resource is never downloaded,
only its status and media type are inspected. Results are not stored with the
item; a URL is validated once, at submission.

Architecture:

  - Prober: the interface the submission pipeline depends on.
  - HTTPProber: HEAD first, ranged GET when HEAD is refused, throttled by a token bucket.
  - CachingProber: remembers recent successes in a [Cache] (Redis in production).
*/
package imageprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/rankeverything/internal/platform/constants"
)

// ErrNotImage is wrapped by every probe failure.
var ErrNotImage = errors.New("imageprobe: url does not resolve to an image")

// Prober validates that a URL resolves to an image resource.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// ProberFunc adapts a plain function to [Prober].
type ProberFunc func(ctx context.Context, rawURL string) error

// Probe calls f(ctx, rawURL).
func (f ProberFunc) Probe(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}

// HTTPProber probes URLs over HTTP(S).
type HTTPProber struct {
	client  *http.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewHTTPProber builds a prober whose requests each take at most timeout and
// which issues at most ratePerSec probes per second with the given burst.
func NewHTTPProber(timeout time.Duration, ratePerSec float64, burst int) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(request *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
		timeout: timeout,
	}
}

/*
Probe reports whether rawURL answers with a 2xx status and an image/* media type.

Steps:
 1. Only absolute http/https URLs are considered.
 2. Wait for a token so bursts of submissions cannot flood remote hosts.
 3. Send HEAD; servers that refuse HEAD (405/501) get a GET for the first byte.
 4. Inspect status and Content-Type.

Returns:
  - error: nil on success, otherwise an error wrapping [ErrNotImage]
*/
func (prober *HTTPProber) Probe(ctx context.Context, rawURL string) error {

	// 1. Scheme and host
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: unsupported url %q", ErrNotImage, rawURL)
	}

	// 2. Throttle
	if err := prober.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, prober.timeout)
	defer cancel()

	// 3. HEAD, then ranged GET as a fallback
	response, err := prober.do(probeCtx, http.MethodHead, parsed.String())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if response.StatusCode == http.StatusMethodNotAllowed || response.StatusCode == http.StatusNotImplemented {
		response, err = prober.do(probeCtx, http.MethodGet, parsed.String())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotImage, err)
		}
	}

	// 4. Status and media type
	return checkResponse(response)
}

// do issues one request and drains the body so the connection can be reused.
func (prober *HTTPProber) do(ctx context.Context, method, target string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}

	request.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)
	request.Header.Set("Accept", "image/*")
	if method == http.MethodGet {
		request.Header.Set("Range", "bytes=0-0")
	}

	response, err := prober.client.Do(request)
	if err != nil {
		return nil, err
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 512))
	_ = response.Body.Close()

	return response, nil
}

// checkResponse accepts 2xx answers that declare an image media type.
func checkResponse(response *http.Response) error {
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrNotImage, response.StatusCode)
	}

	contentType := response.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: content type %q", ErrNotImage, contentType)
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: content type %q", ErrNotImage, mediaType)
	}

	return nil
}
