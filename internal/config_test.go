package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/guru-sync/pkg/config"
)

func validUserConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Guru.Username = "me@example.com"
	cfg.Guru.Password = "token"
	cfg.Guru.TeamName = "acme"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Guru.AuthMode != "user" || cfg.Sync.OnlyVerified || cfg.Sync.DownloadAttachments {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Guru, cfg.Sync)
	}
	if cfg.Sync.AttachmentDir != "static/guru-attachments" || cfg.Sync.ParentConcurrency != 4 {
		t.Errorf("sync defaults = %+v", cfg.Sync)
	}
	if cfg.Guru.BaseURL != "https://api.getguru.com/api/v1" || cfg.Guru.Timeout != 30*time.Second {
		t.Errorf("guru defaults = %+v", cfg.Guru)
	}
}

func TestGuruConfig_UserModeRequiresCredentials(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Guru.Username = "me@example.com"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for incomplete user credentials")
	}
	if !strings.Contains(err.Error(), "user mode requires") {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validUserConfig().Validate(); err != nil {
		t.Errorf("complete user config: %v", err)
	}
}

func TestGuruConfig_CollectionMode(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Guru.AuthMode = "collection"
	cfg.Guru.CollectionID = "col-1"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "collection mode requires") {
		t.Fatalf("err = %v", err)
	}
	cfg.Guru.CollectionToken = "secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("complete collection config: %v", err)
	}
}

func TestGuruConfig_InvalidMode(t *testing.T) {
	cfg := validUserConfig()
	cfg.Guru.AuthMode = "oauth"
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid auth mode should fail")
	}
}

func TestSyncConfig_FileSource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Sync.Source = "file"
	if err := cfg.Validate(); err == nil {
		t.Fatal("file source without export path should fail")
	}
	cfg.Sync.ExportPath = "cards.json"
	// No API credentials needed for a file source.
	if err := cfg.Validate(); err != nil {
		t.Errorf("file source: %v", err)
	}
}

func TestSyncConfig_ParentConcurrency(t *testing.T) {
	cfg := validUserConfig()
	cfg.Sync.ParentConcurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero concurrency should fail")
	}
}

func TestSyncConfig_PublicPrefix(t *testing.T) {
	for _, prefix := range []string{"", "guru-attachments/", "/guru-attachments", "//"} {
		cfg := validUserConfig()
		cfg.Sync.PublicPrefix = prefix
		if err := cfg.Validate(); err == nil {
			t.Errorf("prefix %q should fail", prefix)
		}
	}
	cfg := validUserConfig()
	cfg.Sync.PublicPrefix = "/static/files/"
	if err := cfg.Validate(); err != nil {
		t.Errorf("nested prefix: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("GURU_TEST_TOKEN", "s3cret")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  log_level: debug
  http:
    port: 9090
guru:
  auth_mode: collection
  collection_id: col-1
  collection_token: ${GURU_TEST_TOKEN}
  timeout: 5s
sync:
  only_verified: true
  download_attachments: true
output:
  vault_path: ""
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Guru.CollectionToken != "s3cret" || cfg.Guru.Timeout != 5*time.Second {
		t.Errorf("guru = %+v", cfg.Guru)
	}
	if !cfg.Sync.OnlyVerified || cfg.Sync.AttachmentDir != "static/guru-attachments" {
		t.Errorf("sync = %+v", cfg.Sync)
	}
	if cfg.App.HTTP.Port != 9090 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Output.VaultPath != "" || cfg.Output.SQLitePath != "./guru.db" {
		t.Errorf("output = %+v", cfg.Output)
	}
}
