package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"DefaultsToOllama", Config{Model: "llama3"}, false},
		{"Ollama", Config{Provider: "ollama", Model: "llama3", BaseURL: "http://ollama:11434", RequestsPerSecond: 2}, false},
		{"HuggingFace", Config{Provider: "huggingface", Model: "mistral", APIKey: "hf_x", Timeout: time.Second}, false},
		{"Unknown", Config{Provider: "gemini"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLLMProvider(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}
}
