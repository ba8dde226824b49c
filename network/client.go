// Package network builds the HTTP clients used to reach TMDB and its image host.
package network

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2

	defaultRetryWaitMin = 500 * time.Millisecond
	defaultRetryWaitMax = 5 * time.Second
)

// Options tunes the client. Timeout bounds a single attempt, MaxRetries
// counts attempts after the first.
type Options struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// NewClient returns an *http.Client that retries transient failures with
// exponential backoff. Once retries are exhausted the last response is handed
// back unchanged so callers can classify its status code.
func NewClient(opts Options, logger zerolog.Logger) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = defaultRetryWaitMin
	}
	if opts.RetryWaitMax < opts.RetryWaitMin {
		opts.RetryWaitMax = max(defaultRetryWaitMax, opts.RetryWaitMin)
	}

	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = opts.Timeout
	client.RetryMax = opts.MaxRetries
	client.RetryWaitMin = opts.RetryWaitMin
	client.RetryWaitMax = opts.RetryWaitMax
	client.CheckRetry = RetryPolicy
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = &retryLogger{logger: logger.With().Str("component", "http").Logger()}

	return client.StandardClient()
}

// RetryPolicy retries connection errors, timeouts, 429 and 5xx (except 501).
// Other 4xx responses, 404 included, are final.
func RetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil && resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 &&
		resp.StatusCode != http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// retryLogger adapts zerolog to retryablehttp.LeveledLogger. Per-attempt
// failures are warnings; the caller reports the final outcome.
type retryLogger struct {
	logger zerolog.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
