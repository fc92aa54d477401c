package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, RemoteModeJSON, cfg.Remote.Mode)
	assert.Equal(t, 3*time.Second, cfg.Folders.ConfirmTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Folders.LiftDelay)
	assert.Equal(t, 993, cfg.Remote.IMAP.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REMOTE_MODE", "IMAP")
	t.Setenv("IMAP_HOST", "imap.example.com")
	t.Setenv("IMAP_PORT", "143")
	t.Setenv("IMAP_SECURITY", "starttls")
	t.Setenv("IMAP_USERNAME", "user@example.com")
	t.Setenv("FOLDERS_CONFIRM_TIMEOUT", "bogus")
	t.Setenv("CORS_ORIGINS", "http://a, http://b")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, RemoteModeIMAP, cfg.Remote.Mode)
	assert.Equal(t, "STARTTLS", cfg.Remote.IMAP.Security)
	assert.Equal(t, 143, cfg.Remote.IMAP.Port)
	assert.Equal(t, "user@example.com", cfg.AccountName())
	assert.Equal(t, 3*time.Second, cfg.Folders.ConfirmTimeout, "非法值回退到默认值")
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORS.Origins)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foldermail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
remote:
  mode: imap
  imap:
    host: mail.example.org
    port: 1143
    security: none
    username: alice
folders:
  confirm_timeout: 5s
  discard_stale_deletes: true
`), 0600))

	cfg := Load()
	require.NoError(t, cfg.LoadFile(path))

	assert.Equal(t, RemoteModeIMAP, cfg.Remote.Mode)
	assert.Equal(t, "mail.example.org", cfg.Remote.IMAP.Host)
	assert.Equal(t, 1143, cfg.Remote.IMAP.Port)
	assert.Equal(t, "NONE", cfg.Remote.IMAP.Security)
	assert.Equal(t, 5*time.Second, cfg.Folders.ConfirmTimeout)
	assert.True(t, cfg.Folders.DiscardStaleDeletes)
	assert.Equal(t, "8080", cfg.Server.Port, "文件中没有的字段保持不变")
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Remote.Mode = "smtp"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Remote.Mode = RemoteModeIMAP
	cfg.Remote.IMAP.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Remote.Mode = RemoteModeIMAP
	cfg.Remote.IMAP.Security = "PLAIN"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Remote.BaseURL = ""
	assert.Error(t, cfg.Validate())

	assert.Error(t, Load().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}
