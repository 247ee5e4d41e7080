package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/guru-sync/internal/attachment"
	"github.com/starford/guru-sync/internal/guru"
	"github.com/starford/guru-sync/internal/ingest"
)

// Auth modes of the preview server.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Guru   GuruConfig        `yaml:"guru"`
	Sync   SyncConfig        `yaml:"sync"`
	Output OutputConfig      `yaml:"output"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration. Content API credentials are only
// required when cards come from the API.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	if c.Sync.Source == ingest.SourceAPI {
		if err := c.Guru.Validate(); err != nil {
			return err
		}
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// GuruConfig holds the content API connection settings.
//
// AuthMode selects the credentials:
//   - "user" (default): Username, Password (API token) and TeamName.
//   - "collection": CollectionID and CollectionToken; cards come from search.
type GuruConfig struct {
	AuthMode        string        `yaml:"auth_mode"`
	TeamName        string        `yaml:"team_name"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	CollectionID    string        `yaml:"collection_id"`
	CollectionToken string        `yaml:"collection_token"`
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
}

// Validate validates the content API configuration.
func (c *GuruConfig) Validate() error {
	if c.AuthMode == "" {
		c.AuthMode = guru.AuthModeUser
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.AuthMode, validation.Required, validation.In(guru.AuthModeUser, guru.AuthModeCollection)),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}

	switch c.AuthMode {
	case guru.AuthModeCollection:
		if c.CollectionID == "" || c.CollectionToken == "" {
			return fmt.Errorf("guru: collection mode requires collection_id and collection_token")
		}
	default:
		if c.Username == "" || c.Password == "" || c.TeamName == "" {
			return fmt.Errorf("guru: user mode requires username, password and team_name")
		}
	}
	return nil
}

// Credentials returns the API credentials.
func (c *GuruConfig) Credentials() guru.Credentials {
	return guru.Credentials{
		Mode:            c.AuthMode,
		Username:        c.Username,
		Password:        c.Password,
		CollectionID:    c.CollectionID,
		CollectionToken: c.CollectionToken,
	}
}

// publicPrefix is an absolute URL path with a trailing slash.
var publicPrefixRe = regexp.MustCompile(`^/([^/]+/)+$`)

// SyncConfig controls what a sync run fetches and how cards are processed.
type SyncConfig struct {
	Source              string `yaml:"source"`
	ExportPath          string `yaml:"export_path"`
	Watch               bool   `yaml:"watch"`
	DownloadAttachments bool   `yaml:"download_attachments"`
	AttachmentDir       string `yaml:"attachment_dir"`
	PublicPrefix        string `yaml:"public_prefix"`
	OnlyVerified        bool   `yaml:"only_verified"`
	FetchCollections    bool   `yaml:"fetch_collections"`
	FetchBoards         bool   `yaml:"fetch_boards"`
	ParentConcurrency   int    `yaml:"parent_concurrency"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required, validation.In(ingest.SourceAPI, ingest.SourceFile)),
		validation.Field(&c.ExportPath, validation.When(c.Source == ingest.SourceFile || c.Watch, validation.Required)),
		validation.Field(&c.AttachmentDir, validation.When(c.DownloadAttachments, validation.Required)),
		validation.Field(&c.PublicPrefix, validation.Required, validation.Match(publicPrefixRe)),
		validation.Field(&c.ParentConcurrency, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// OutputConfig holds where records are written. An empty VaultPath
// disables the Markdown vault.
type OutputConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
	VaultPath  string `yaml:"vault_path"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// AuthConfig holds authentication configuration of the preview server.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Guru: GuruConfig{
			AuthMode: guru.AuthModeUser,
			BaseURL:  guru.DefaultBaseURL,
			Timeout:  30 * time.Second,
		},
		Sync: SyncConfig{
			Source:            ingest.SourceAPI,
			AttachmentDir:     "static/guru-attachments",
			PublicPrefix:      attachment.DefaultPublicPrefix,
			ParentConcurrency: 4,
		},
		Output: OutputConfig{
			SQLitePath: "./guru.db",
			VaultPath:  "./vault",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
