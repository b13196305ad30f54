// Package config loads application configuration from Viper and the
// environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/calloway/mintleaf/internal/model"
	"github.com/calloway/mintleaf/internal/plaid"
	"github.com/calloway/mintleaf/internal/wallet"
)

// Config is the resolved application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Plaid    plaid.Config
	Wallets  map[model.WalletType]wallet.Credentials
	Logging  LoggingConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string
	UploadDir       string
	AllowedOrigin   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string
}

// AuthConfig configures password hashing and token issuance.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load resolves configuration with this precedence: Viper (config file
// or MINTLEAF_ env vars), then direct environment variables, then
// defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            viper.GetString("server.addr"),
			UploadDir:       ExpandPath(viper.GetString("server.upload_dir")),
			AllowedOrigin:   viper.GetString("server.allowed_origin"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(viper.GetString("database.path")),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("auth.jwt_secret"),
			TokenTTL:  viper.GetDuration("auth.token_ttl"),
		},
		Plaid: plaid.Config{
			ClientID:    viper.GetString("plaid.client_id"),
			Secret:      viper.GetString("plaid.secret"),
			Environment: viper.GetString("plaid.environment"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("logging.level"),
			Format: viper.GetString("logging.format"),
		},
	}

	// Direct environment variables fill anything Viper left empty.
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.Plaid.ClientID == "" {
		cfg.Plaid.ClientID = os.Getenv("PLAID_CLIENT_ID")
	}
	if cfg.Plaid.Secret == "" {
		cfg.Plaid.Secret = os.Getenv("PLAID_SECRET")
	}
	if cfg.Plaid.Environment == "" {
		cfg.Plaid.Environment = os.Getenv("PLAID_ENVIRONMENT")
	}

	cfg.Wallets = loadWalletCredentials()

	applyDefaults(cfg)

	// The JWT secret is only required by serve; auth.NewManager
	// rejects an empty one there.
	if cfg.Plaid.ClientID != "" || cfg.Plaid.Secret != "" {
		if err := cfg.Plaid.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// PlaidEnabled reports whether Plaid credentials were provided.
func (c *Config) PlaidEnabled() bool {
	return c.Plaid.ClientID != "" && c.Plaid.Secret != ""
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "uploads"
	}
	if cfg.Server.AllowedOrigin == "" {
		cfg.Server.AllowedOrigin = "*"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath()
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Plaid.Environment == "" {
		cfg.Plaid.Environment = "sandbox"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func loadWalletCredentials() map[model.WalletType]wallet.Credentials {
	creds := make(map[model.WalletType]wallet.Credentials)
	for provider, prefix := range map[model.WalletType]string{
		model.WalletPayPal:    "wallets.paypal",
		model.WalletGooglePay: "wallets.google_pay",
		model.WalletStripe:    "wallets.stripe",
	} {
		c := wallet.Credentials{
			ClientID:     viper.GetString(prefix + ".client_id"),
			ClientSecret: viper.GetString(prefix + ".client_secret"),
		}
		if c.ClientID != "" && c.ClientSecret != "" {
			creds[provider] = c
		}
	}
	return creds
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mintleaf.db"
	}
	return filepath.Join(home, ".local", "share", "mintleaf", "mintleaf.db")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
