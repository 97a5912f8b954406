package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the conf dir at a temp dir and clears overrides.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DEVPORTAL_CONF_DIR", dir)
	for _, k := range []string{
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "DEVPORTAL_LISTEN",
		"DEVPORTAL_LOG_LEVEL", "DEVPORTAL_HUBS_COLLECTION", "DEVPORTAL_DEVICES_COLLECTION",
		"DEVPORTAL_ADMIN_EMAIL", "DEVPORTAL_ADMIN_PASSWORD_HASH", "DEVPORTAL_QR_SECRET",
		"DEVPORTAL_MAX_ATTEMPTS", "DEVPORTAL_LOGIN_RATE", "DEVPORTAL_SESSION_TTL",
		"DEVPORTAL_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "userHubs", cfg.HubsCollection)
	assert.Equal(t, "devices", cfg.DevicesCollection)
	assert.Equal(t, 100, cfg.MaxAttempts)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := isolateConfig(t)
	yml := `projectId: sukoon-dev
listen: ":9090"
maxAttempts: 25
sessionTTL: 30m
adminEmail: ops@sukoon.dev
allowedOrigins: ["https://a.example"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portal.yaml"), []byte(yml), 0o600))
	assert.Equal(t, filepath.Join(dir, "portal.yaml"), ConfFile())

	t.Setenv("DEVPORTAL_LISTEN", ":7070")
	t.Setenv("DEVPORTAL_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("DEVPORTAL_ALLOWED_ORIGINS", "https://b.example, ,https://c.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sukoon-dev", cfg.ProjectID)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, 25, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "ops@sukoon.dev", cfg.AdminEmail)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "devices", cfg.DevicesCollection)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	dir := isolateConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portal.yaml"), []byte("listen: [unclosed"), 0o600))
	_, err := LoadConfig()
	assert.Error(t, err)
}
