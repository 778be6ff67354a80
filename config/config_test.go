package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("STORE_ERROR_POLICY", "")
	t.Setenv("LLM_BACKEND", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("AI_TIMEOUT", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_MAX_ENTRIES", "")
	t.Setenv("UPLOAD_MAX_BYTES", "")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, PolicyDegrade, c.StoreErrorPolicy)
	assert.Equal(t, BackendLangChain, c.LLMBackend)
	assert.Equal(t, "gpt-4o-mini", c.OpenAIModel)
	assert.Equal(t, 60*time.Second, c.AITimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, c.CORSAllowedOrigins)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 10000, c.CacheMaxEntries)
	assert.EqualValues(t, 5<<20, c.MaxUploadBytes)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("STORE_ERROR_POLICY", "Surface")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://fitquest.app")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_MAX_ENTRIES", "500")

	c := Load()
	assert.Equal(t, "https://abc.supabase.co", c.SupabaseURL)
	assert.Equal(t, PolicySurface, c.StoreErrorPolicy)
	assert.Equal(t, 15*time.Second, c.AITimeout)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.True(t, c.DBDebug)
	assert.Equal(t, []string{"http://localhost:3000", "https://fitquest.app"}, c.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Minute, c.CacheTTL)
	assert.Equal(t, 500, c.CacheMaxEntries)
	require.NoError(t, c.Validate())
}

func TestValidateRequiresHostedAuth(t *testing.T) {
	c := Config{StoreErrorPolicy: PolicyDegrade, LLMBackend: BackendLangChain}

	err := c.Validate()
	require.ErrorIs(t, err, ErrMissingEnv)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")

	assert.NoError(t, c.WithPlaceholders().Validate())
}

func TestValidateRejectsUnknownChoices(t *testing.T) {
	base := Config{SupabaseURL: "http://x", SupabaseAnonKey: "k", StoreErrorPolicy: PolicyDegrade, LLMBackend: BackendOpenAI}
	require.NoError(t, base.Validate())

	bad := base
	bad.StoreErrorPolicy = "ignore"
	assert.Error(t, bad.Validate())

	bad = base
	bad.LLMBackend = "llama"
	assert.Error(t, bad.Validate())
}
