package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(Config{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.NotContains(t, sampler(0).Description(), "TraceIDRatioBased")
	assert.NotContains(t, sampler(1.5).Description(), "TraceIDRatioBased")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestNewResource(t *testing.T) {
	res := newResource(Config{ServiceName: "ai-interview-be", Version: "1.2.0", Environment: "staging"})

	name, ok := res.Set().Value(attribute.Key("service.name"))
	assert.True(t, ok)
	assert.Equal(t, "ai-interview-be", name.AsString())

	version, _ := res.Set().Value(attribute.Key("service.version"))
	assert.Equal(t, "1.2.0", version.AsString())
}
