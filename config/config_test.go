package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	for _, key := range []string{"PORT", "CRON_ENABLED", "DO_SPACES_BUCKET", "DO_SPACES_REGION", "DO_SPACES_ACCESS_KEY", "DO_SPACES_SECRET_KEY"} {
		// t.Setenv registers the restore, Unsetenv clears it for this test
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 8080, env.PORT)
	assert.True(t, env.CRON_ENABLED)
	assert.False(t, env.IsProduction())
	assert.False(t, env.SpacesConfigured())
}

func TestGetReadsEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("ALLOWED_ORIGINS", "  https://campus.example.com  ")
	t.Setenv("DO_SPACES_ACCESS_KEY", "key")
	t.Setenv("DO_SPACES_SECRET_KEY", "secret")
	t.Setenv("DO_SPACES_BUCKET", "rosters")
	t.Setenv("DO_SPACES_REGION", "blr1")

	env, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 9090, env.PORT)
	assert.False(t, env.CRON_ENABLED)
	assert.True(t, env.IsProduction())
	assert.Equal(t, "https://campus.example.com", env.ALLOWED_ORIGINS)
	assert.True(t, env.SpacesConfigured())
}

func TestGetRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	_, err := Get()
	assert.Error(t, err)
}
