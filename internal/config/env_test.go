package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bharathi")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, "gemini", cfg.EmbedProvider)
	assert.False(t, cfg.ReplaceExisting)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bharathi")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("CHUNK_OVERLAP", "50")
	t.Setenv("FETCH_TIMEOUT", "15s")
	t.Setenv("INGEST_REPLACE_EXISTING", "true")
	t.Setenv("EMBED_PROVIDER", "OpenAI")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.ReplaceExisting)
	assert.Equal(t, "openai", cfg.EmbedProvider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/bharathi")
	t.Setenv("CHUNK_SIZE", "100")
	t.Setenv("CHUNK_OVERLAP", "100")
	_, err = LoadConfig()
	require.Error(t, err)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	t.Setenv("SOME_DUR", "soon")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
	assert.Equal(t, time.Second, getEnvDuration("SOME_DUR", time.Second))
}
