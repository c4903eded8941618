package logx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"verhandlungsbot/pkg/logx"
)

func TestSensitiveDataMasker(t *testing.T) {
	masker := logx.NewSensitiveDataMasker()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "authorization header",
			input:    "Authorization: Bearer sk-proj-sehr-geheim\rHost: api.openai.com",
			expected: "Authorization: Bearer [MASKED]\rHost: api.openai.com",
		},
		{
			name:     "dashboard key header",
			input:    "X-Dashboard-Key: forschung2026\rAccept: application/json",
			expected: "X-Dashboard-Key: [MASKED]\rAccept: application/json",
		},
		{
			name:     "api key json field",
			input:    `{"apiKey":"sk-123456","model":"gpt-4o"}`,
			expected: `{"apiKey":"[MASKED]","model":"gpt-4o"}`,
		},
		{
			name:     "openai key in body",
			input:    `key=sk-proj-abcdef1234567890`,
			expected: `key=sk-proj[MASKED]`,
		},
		{
			name:     "transcript text stays intact",
			input:    `{"text":"Ich biete 750 €"}`,
			expected: `{"text":"Ich biete 750 €"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(masker.Mask([]byte(tt.input))))
		})
	}
}

func TestNopSensitiveDataMasker(t *testing.T) {
	masker := logx.NewNopSensitiveDataMasker()

	input := []byte(`{"apiKey":"sk-123456"}`)
	assert.Equal(t, input, masker.Mask(input))
}
