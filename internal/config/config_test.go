package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"OPENROUTER_API_KEY", "LLM_MODEL", "LLM_BASE_URL", "LLM_TIMEOUT", "LLM_ERRORS_AS_ANSWER",
		"GOOGLE_SPEECH_API_KEY", "GOOGLE_SPEECH_ENDPOINT", "SPEECH_LANGUAGE",
		"PORT", "LOG_LEVEL", "LOG_JSON", "MAX_UPLOAD_BYTES", "MAX_IMAGE_PIXELS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultLLMURL, cfg.LLM.URL)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.True(t, cfg.LLM.ErrorsAsAnswer)
	assert.Equal(t, DefaultSpeechLanguage, cfg.Speech.Language)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, int64(DefaultMaxImagePixels), cfg.MaxImagePixels)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "google/gemini-flash")
	t.Setenv("LLM_TIMEOUT", "0")
	t.Setenv("LLM_ERRORS_AS_ANSWER", "false")
	t.Setenv("SPEECH_LANGUAGE", "en-IN")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("MAX_IMAGE_PIXELS", "1000000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "google/gemini-flash", cfg.LLM.Model)
	assert.Equal(t, time.Duration(0), cfg.LLM.Timeout)
	assert.False(t, cfg.LLM.ErrorsAsAnswer)
	assert.Equal(t, "en-IN", cfg.Speech.Language)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, int64(1000000), cfg.MaxImagePixels)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"LLM_TIMEOUT":          "soon",
		"LLM_ERRORS_AS_ANSWER": "maybe",
		"MAX_UPLOAD_BYTES":     "-1",
		"MAX_IMAGE_PIXELS":     "0",
		"LOG_JSON":             "yes please",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPENROUTER_API_KEY", "sk-test")
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
