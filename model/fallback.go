package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/careerpilot/careerpilot/logging"
)

// BackendExhaustedError reports that every backend in a fallback chain
// failed for one invocation. It aggregates the final error of each backend.
type BackendExhaustedError struct {
	Errs []error
}

// Error implements the error interface.
func (e *BackendExhaustedError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("model: all %d backends failed: %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the per-backend errors to errors.Is / errors.As.
func (e *BackendExhaustedError) Unwrap() []error { return e.Errs }

// FallbackChainOptions configures a FallbackChain.
type FallbackChainOptions struct {
	// MaxRetries bounds the retry attempts per backend before the chain
	// moves on to the next one.
	MaxRetries uint64
	// InitialInterval seeds the exponential backoff between retries.
	InitialInterval time.Duration
	// Logger records attempt outcomes; defaults to NoOp.
	Logger logging.Logger
}

// FallbackChain wraps an ordered list of backends. Invoke tries each backend
// in order, retrying transient failures per backend with bounded exponential
// backoff, and returns the first successful response. The chain holds no
// mutable state and is safe for concurrent use.
type FallbackChain struct {
	backends []Model
	opts     FallbackChainOptions
}

// NewFallbackChain builds a chain over one or more backends. The first
// backend is the primary; the rest are tried in order on failure.
func NewFallbackChain(backends []Model, optFns ...func(o *FallbackChainOptions)) (*FallbackChain, error) {
	if len(backends) == 0 {
		return nil, errors.New("model: fallback chain requires at least one backend")
	}

	opts := FallbackChainOptions{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &FallbackChain{backends: backends, opts: opts}, nil
}

// Invoke implements Model. A backend attempt is retried per the chain's
// retry policy before being considered failed; if all backends fail the
// chain returns a single aggregated *BackendExhaustedError.
func (c *FallbackChain) Invoke(ctx context.Context, req Request) (Response, error) {
	var errs []error

	for _, backend := range c.backends {
		resp, err := c.invokeWithRetry(ctx, backend, req)
		if err == nil {
			return resp, nil
		}

		c.opts.Logger.Warn("model.backend.failed",
			"provider", backend.Info().Provider,
			"model", backend.Info().Name,
			"error", err.Error(),
		)
		errs = append(errs, fmt.Errorf("%s/%s: %w", backend.Info().Provider, backend.Info().Name, err))

		if ctx.Err() != nil {
			break
		}
	}

	return Response{}, &BackendExhaustedError{Errs: errs}
}

func (c *FallbackChain) invokeWithRetry(ctx context.Context, backend Model, req Request) (Response, error) {
	var resp Response

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.InitialInterval

	op := func() error {
		var err error
		resp, err = backend.Invoke(ctx, req)
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.opts.MaxRetries), ctx))
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Info describes the chain by its primary backend.
func (c *FallbackChain) Info() Info {
	primary := c.backends[0].Info()
	return Info{
		Name:          primary.Name,
		Provider:      "fallback(" + primary.Provider + ")",
		SupportsTools: primary.SupportsTools,
	}
}
