package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsNeedConsumerCredentials(t *testing.T) {
	t.Setenv("TWITTER_CONSUMER_KEY", "")
	t.Setenv("TWITTER_CONSUMER_SECRET", "")
	cfg := Default()
	cfg.ResolveEnv()
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ConsumerKey")
	require.Contains(t, err.Error(), "ConsumerSecret")
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("TWITTER_CONSUMER_KEY", "ck")
	t.Setenv("TWITTER_CONSUMER_SECRET", "cs")
	t.Setenv("REDISCLOUD_URL", "")
	t.Setenv("PORT", "9999")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, "ck", cfg.Credentials.ConsumerKey)
	require.Equal(t, ":9999", cfg.Server.Addr)
	require.Equal(t, 2, cfg.Edition.RetweetWeight)
	require.Equal(t, 3, cfg.Edition.MaxItems)
}

func TestSaveLoadRoundTripAndRedisOverride(t *testing.T) {
	t.Setenv("TWITTER_CONSUMER_KEY", "")
	t.Setenv("TWITTER_CONSUMER_SECRET", "")
	t.Setenv("REDISCLOUD_URL", "redis://:pw@localhost:6379/0")
	path := filepath.Join(t.TempDir(), "sub", "besttweets.yaml")
	cfg := Default()
	cfg.Credentials.ConsumerKey = "filekey"
	cfg.Credentials.ConsumerSecret = "filesecret"
	cfg.Edition.RetweetWeight = 1
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "filekey", got.Credentials.ConsumerKey)
	require.Equal(t, 1, got.Edition.RetweetWeight)
	require.Equal(t, "redis", got.Storage.Driver)
	require.NoError(t, got.Validate())
}

func TestValidateRejectsBadEditionSettings(t *testing.T) {
	cfg := Default()
	cfg.Credentials = CredentialsConfig{ConsumerKey: "ck", ConsumerSecret: "cs"}
	cfg.Edition.MaxItems = 0
	cfg.Edition.RetweetWeight = -1
	require.Error(t, cfg.Validate())
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
