package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds the whole download step, retries included.
	DefaultTimeout = 60 * time.Second
	// DefaultRetries is the default number of download retries
	DefaultRetries = 2
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "smooai-log-viewer-launcher/1.0"

	// maxSignatureBytes caps detached signature downloads.
	maxSignatureBytes = 1 << 20
)

// Downloader handles HTTP downloads with retry logic
type Downloader struct {
	client    *http.Client
	userAgent string
	retries   int
	backoff   func(attempt int) time.Duration
	logger    zerolog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = c
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) DownloaderOption {
	return func(d *Downloader) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// WithDownloadLogger sets the logger for retry diagnostics.
func WithDownloadLogger(l zerolog.Logger) DownloaderOption {
	return func(d *Downloader) {
		d.logger = l
	}
}

// NewDownloader creates a new downloader
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		// No client timeout: the caller's context is the only deadline
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Release assets redirect to a CDN; allow up to 10 hops
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		retries:   DefaultRetries,
		// Exponential backoff: 1s, 2s, 4s
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DownloadToFile downloads url into destPath. The body is written verbatim
// to a temp file, checked with check (may be nil), given executable
// permissions when requested, and renamed over destPath. It returns the
// SHA-256 of the written content.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string, executable bool, check func(tmpPath string) error) (string, error) {
	var digest string

	err := d.withRetries(ctx, func() error {
		sum, err := d.downloadOnce(ctx, url, destPath, executable, check)
		if err != nil {
			return err
		}
		digest = sum
		return nil
	})
	if err != nil {
		return "", err
	}

	return digest, nil
}

// Fetch downloads url into memory, reading at most limit bytes.
func (d *Downloader) Fetch(ctx context.Context, url string, limit int64) ([]byte, error) {
	var body []byte

	err := d.withRetries(ctx, func() error {
		resp, err := d.get(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// withRetries runs fn until it succeeds, the retry budget is spent, the
// context ends, or fn fails with a non-retryable HTTP status or a
// verification error.
func (d *Downloader) withRetries(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= d.retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if attempt > 0 {
			wait := d.backoff(attempt)
			d.logger.Debug().Int("attempt", attempt+1).Dur("backoff", wait).Err(lastErr).Msg("Retrying download")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		var serr *statusError
		if errors.As(err, &serr) && !serr.retryable() {
			return err
		}

		var verr *VerificationError
		if errors.As(err, &verr) {
			return err
		}
	}

	return fmt.Errorf("download failed after %d retries: %w", d.retries, lastErr)
}

// get issues an anonymous GET and rejects non-2xx responses.
func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &statusError{URL: url, Code: resp.StatusCode}
	}

	return resp, nil
}

// downloadOnce performs a single download attempt
func (d *Downloader) downloadOnce(ctx context.Context, url, destPath string, executable bool, check func(string) error) (string, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// A body shorter than Content-Length surfaces as io.ErrUnexpectedEOF
	// from the transport, which installFile treats as a failed write.
	return installFile(resp.Body, destPath, executable, check)
}
