package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyProvider struct {
	errs  []error
	calls int
}

func (f *flakyProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return "", f.errs[f.calls-1]
	}
	return "done", nil
}

func (f *flakyProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}

func TestRetryingProvider(t *testing.T) {
	tests := []struct {
		name     string
		errs     []error
		wantErr  bool
		expected int
	}{
		{"SucceedsFirstTime", nil, false, 1},
		{"RetriesTransient", []error{errors.New("connection reset"), &StatusError{StatusCode: http.StatusBadGateway}}, false, 3},
		{"StopsOnRejected", []error{&StatusError{StatusCode: http.StatusBadRequest}}, true, 1},
		{"GivesUp", []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flaky := &flakyProvider{errs: tt.errs}
			p := NewRetryingProvider(flaky, 2, time.Millisecond)

			out, err := p.Generate(context.Background(), "prompt")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "done", out)
			}
			assert.Equal(t, tt.expected, flaky.calls)
		})
	}
}

func TestNewRetryingProvider_ZeroRetriesIsPassThrough(t *testing.T) {
	flaky := &flakyProvider{}
	assert.Same(t, flaky, NewRetryingProvider(flaky, 0, 0))
}

func TestNewOptions(t *testing.T) {
	o := NewOptions(Options{Temperature: 0.7, MaxTokens: 10}, WithModel("m"), WithJSON())

	assert.Equal(t, Options{Temperature: 0.7, MaxTokens: 10, Model: "m", JSON: true}, *o)
}
