// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

func countingServer(t *testing.T, handler func(n int32, w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler(atomic.AddInt32(&calls, 1), w)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://ftp.ncbi.nlm.nih.gov/pubmed/baseline/pubmed26n0001.xml.gz"))
	assert.True(t, IsRemote("http://localhost/batch.xml"))
	assert.False(t, IsRemote("batches/pubmed26n0001.xml"))
	assert.False(t, IsRemote("-"))
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		failures   int32
		failStatus int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", 0, http.StatusTooManyRequests, 3, http.StatusOK, 1},
		{"429 then success", 2, http.StatusTooManyRequests, 3, http.StatusOK, 3},
		{"503 then success", 1, http.StatusServiceUnavailable, 3, http.StatusOK, 2},
		{"exhausted", 100, http.StatusTooManyRequests, 2, http.StatusTooManyRequests, 3},
		{"default retries", 100, http.StatusTooManyRequests, 0, http.StatusTooManyRequests, defaultMaxRetries + 1},
		{"500 not retried", 100, http.StatusInternalServerError, 3, http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := countingServer(t, func(n int32, w http.ResponseWriter) {
				if n <= tt.failures {
					w.WriteHeader(tt.failStatus)
					return
				}
				w.WriteHeader(http.StatusOK)
			})

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	ts, _ := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch(t *testing.T) {
	ts, _ := countingServer(t, func(n int32, w http.ResponseWriter) {
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("<PubmedArticleSet/>"))
	})

	data, err := Fetch(context.Background(), ts.Client(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "<PubmedArticleSet/>", string(data))
}

func TestFetch_BadStatus(t *testing.T) {
	ts, _ := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := Fetch(context.Background(), ts.Client(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}
