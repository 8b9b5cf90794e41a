package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
log:
  level: debug
  format: json
fetch:
  timeout: 10s
  user_agent: "vocab-test/1.0"
sources:
  cambridge_url: "http://127.0.0.1:8081"
  oxford_url: "http://127.0.0.1:8082"
translate:
  target_lang: fr
  timeout: 3s
batch:
  max_words: 20
  delay: 500ms
mongo:
  uri: "mongodb://localhost:27017"
  database: vocab_test
  collection: words
postgres:
  dsn: "postgres://u:p@localhost:5432/vocab?sslmode=disable"
`

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VOCAB_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "https://dictionary.cambridge.org", cfg.Sources.CambridgeURL)
	assert.Equal(t, "https://www.oxfordlearnersdictionaries.com", cfg.Sources.OxfordURL)
	assert.Equal(t, "vi", cfg.Translate.TargetLang)
	assert.Equal(t, 5*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 50, cfg.Batch.MaxWords)
	assert.Equal(t, 2*time.Second, cfg.Batch.Delay)
	assert.Equal(t, "words", cfg.Mongo.Collection)
	assert.False(t, cfg.Supabase.Enabled())
}

func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "vocab-test/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, "http://127.0.0.1:8081", cfg.Sources.CambridgeURL)
	assert.Equal(t, "fr", cfg.Translate.TargetLang)
	assert.Equal(t, "en", cfg.Translate.SourceLang)
	assert.Equal(t, 20, cfg.Batch.MaxWords)
	assert.Equal(t, 500*time.Millisecond, cfg.Batch.Delay)
	assert.Equal(t, "vocab_test", cfg.Mongo.Database)
	assert.Equal(t, "postgres://u:p@localhost:5432/vocab?sslmode=disable", cfg.Postgres.DSN)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("BATCH_MAX_WORDS", "7")
	t.Setenv("MONGO_DATABASE", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Batch.MaxWords)
	assert.Equal(t, "from_env", cfg.Mongo.Database)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("VOCAB_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "vocab_test", cfg.Mongo.Database)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeYAML(t, t.TempDir(), `
batch:
  max_words: 80
sources:
  oxford_url: "ftp://example.com"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch.max_words must be between 1 and 50, got 80")
	assert.Contains(t, err.Error(), "sources.oxford_url")
}

func TestSupabaseEnabled(t *testing.T) {
	assert.True(t, SupabaseConfig{ConnectionString: "postgres://x"}.Enabled())
	assert.True(t, SupabaseConfig{URL: "https://ref.supabase.co", Key: "anon"}.Enabled())
	assert.False(t, SupabaseConfig{URL: "https://ref.supabase.co"}.Enabled())
}

func TestLoad_BatchDelayFloor(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("VOCAB_CONFIG", "")

	for _, raw := range []string{"0s", "100ms"} {
		t.Setenv("BATCH_DELAY", raw)
		_, err := Load("")
		require.Error(t, err, raw)
		assert.Contains(t, err.Error(), "batch.delay must be at least 500ms")
	}

	t.Setenv("BATCH_DELAY", "500ms")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, MinBatchDelay, cfg.Batch.Delay)
}

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (Go 1.24+):
// it changes the working directory and restores it when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
