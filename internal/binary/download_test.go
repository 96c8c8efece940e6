package binary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloaderDownloadToFile(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		retries    int
		wantErr    bool
		wantCalls  int32
	}{
		{
			name:       "successful_download",
			statusCode: http.StatusOK,
			body:       "test binary content",
			retries:    2,
			wantCalls:  1,
		},
		{
			name:       "404_not_retried",
			statusCode: http.StatusNotFound,
			body:       "not found",
			retries:    2,
			wantErr:    true,
			wantCalls:  1,
		},
		{
			name:       "500_retried",
			statusCode: http.StatusInternalServerError,
			body:       "server error",
			retries:    2,
			wantErr:    true,
			wantCalls:  3,
		},
		{
			name:       "429_retried",
			statusCode: http.StatusTooManyRequests,
			retries:    1,
			wantErr:    true,
			wantCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			dir := t.TempDir()
			dest := filepath.Join(dir, "smooai-log-viewer")
			d := newTestDownloader(WithRetries(tt.retries))

			digest, err := d.DownloadToFile(context.Background(), server.URL+"/asset", dest, true, nil)

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantErr {
				require.Error(t, err)
				_, statErr := os.Stat(dest)
				assert.True(t, os.IsNotExist(statErr), "failed download must not create the destination")
				assert.Empty(t, tempFiles(t, dir))
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, digest)
			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(data))
		})
	}
}

func TestDownloaderTruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1024")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("only part of it"))
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "smooai-log-viewer")
	d := newTestDownloader(WithRetries(1))

	_, err := d.DownloadToFile(context.Background(), server.URL, dest, true, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	assert.Empty(t, tempFiles(t, dir))
}

func TestDownloaderRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("second time lucky"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "smooai-log-viewer")
	_, err := newTestDownloader().DownloadToFile(context.Background(), server.URL, dest, true, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDownloaderVerificationNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("tampered"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "smooai-log-viewer")
	_, err := newTestDownloader(WithRetries(3)).DownloadToFile(context.Background(), server.URL, dest, true,
		func(string) error { return errors.New("signature mismatch") })

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownloaderContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dest := filepath.Join(t.TempDir(), "smooai-log-viewer")
	_, err := newTestDownloader().DownloadToFile(ctx, server.URL, dest, true, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDownloaderFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer server.Close()

	d := newTestDownloader()

	body, err := d.Fetch(context.Background(), server.URL, 1024)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(body))

	body, err = d.Fetch(context.Background(), server.URL, 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
}

func TestDownloaderFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/releases/latest/download/asset", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cdn/asset", http.StatusFound)
	})
	mux.HandleFunc("/cdn/asset", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("from cdn"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "smooai-log-viewer")
	_, err := newTestDownloader().DownloadToFile(context.Background(), server.URL+"/releases/latest/download/asset", dest, true, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "from cdn", string(data))
}

func TestStatusErrorRetryable(t *testing.T) {
	assert.True(t, (&statusError{Code: 500}).retryable())
	assert.True(t, (&statusError{Code: 503}).retryable())
	assert.True(t, (&statusError{Code: 429}).retryable())
	assert.False(t, (&statusError{Code: 404}).retryable())
	assert.False(t, (&statusError{Code: 403}).retryable())
}
