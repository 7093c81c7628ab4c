package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryingProvider retries transient backend failures with exponential
// backoff. Rejected requests and context cancellation are returned at once.
type RetryingProvider struct {
	next       LLMProvider
	maxRetries uint64
	base       time.Duration
}

var _ LLMProvider = &RetryingProvider{}

func NewRetryingProvider(next LLMProvider, maxRetries uint64, base time.Duration) LLMProvider {
	if maxRetries == 0 {
		return next
	}
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return &RetryingProvider{next: next, maxRetries: maxRetries, base: base}
}

func (p *RetryingProvider) backoff() retry.Backoff {
	b := retry.NewExponential(p.base)
	b = retry.WithCappedDuration(10*time.Second, b)
	return retry.WithMaxRetries(p.maxRetries, b)
}

func (p *RetryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	var out string
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		resp, err := p.next.Chat(ctx, history, options...)
		if err != nil {
			if IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return retry.RetryableError(err)
		}
		out = resp
		return nil
	})
	return out, err
}

func (p *RetryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
