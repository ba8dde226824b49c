package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions(retries int) Options {
	return Options{
		Timeout:      2 * time.Second,
		MaxRetries:   retries,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	}
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		status int
		err    error
		retry  bool
	}{
		{name: "ok", status: http.StatusOK, retry: false},
		{name: "not found", status: http.StatusNotFound, retry: false},
		{name: "unauthorized", status: http.StatusUnauthorized, retry: false},
		{name: "rate limited", status: http.StatusTooManyRequests, retry: true},
		{name: "server error", status: http.StatusInternalServerError, retry: true},
		{name: "unavailable", status: http.StatusServiceUnavailable, retry: true},
		{name: "not implemented", status: http.StatusNotImplemented, retry: false},
		{name: "connection error", err: errors.New("connection reset by peer"), retry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.err == nil {
				resp = &http.Response{StatusCode: tt.status, Header: http.Header{}}
			}
			retry, _ := RetryPolicy(ctx, resp, tt.err)
			assert.Equal(t, tt.retry, retry)
		})
	}

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		retry, err := RetryPolicy(canceled, nil, errors.New("boom"))
		assert.False(t, retry)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(fastOptions(2), zerolog.Nop())
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewClient_PassesThroughLastResponse(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(fastOptions(1), zerolog.Nop())
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClient_NeverRetriesNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(fastOptions(3), zerolog.Nop())
	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	opts := fastOptions(0)
	opts.Timeout = 50 * time.Millisecond
	client := NewClient(opts, zerolog.Nop())

	_, err := client.Get(server.URL)
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Options{MaxRetries: -1}, zerolog.Nop())
	require.NotNil(t, client)
	require.NotNil(t, client.Transport)
}
