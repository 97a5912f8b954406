package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ConfDir = "/etc/sukoon-devportal"
)

func confDir() string {
	if v := os.Getenv("DEVPORTAL_CONF_DIR"); v != "" {
		return v
	}
	return ConfDir
}

func confFile() string {
	return filepath.Join(confDir(), "portal.yaml")
}

// Config is the portal's runtime configuration. Values come from portal.yaml
// in the conf dir and are overridden by the environment (.env is loaded first).
type Config struct {
	ProjectID       string `yaml:"projectId"`
	CredentialsFile string `yaml:"credentialsFile"`
	Listen          string `yaml:"listen"`
	LogLevel        string `yaml:"logLevel"`

	HubsCollection    string `yaml:"hubsCollection"`
	DevicesCollection string `yaml:"devicesCollection"`
	MaxAttempts       int    `yaml:"maxAttempts"`

	AdminEmail        string        `yaml:"adminEmail"`
	AdminPasswordHash string        `yaml:"adminPasswordHash"`
	SessionTTL        time.Duration `yaml:"sessionTTL"`
	LoginRatePerMin   int           `yaml:"loginRatePerMin"`

	QRSecret       string   `yaml:"qrSecret"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func DefaultConfig() Config {
	return Config{
		Listen:            ":8080",
		HubsCollection:    "userHubs",
		DevicesCollection: "devices",
		MaxAttempts:       DefaultMaxAttempts,
		SessionTTL:        12 * time.Hour,
		LoginRatePerMin:   10,
	}
}

// LoadConfig resolves the configuration: defaults, then the YAML file if
// present, then environment variables.
func LoadConfig() (Config, error) {
	// Missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	b, err := os.ReadFile(confFile())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", confFile(), err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("read %s: %w", confFile(), err)
	}
	cfg.applyEnv()
	if cfg.MaxAttempts <= 0 { cfg.MaxAttempts = DefaultMaxAttempts }
	if cfg.SessionTTL <= 0 { cfg.SessionTTL = DefaultConfig().SessionTTL }
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	setString(&c.Listen, "DEVPORTAL_LISTEN")
	setString(&c.LogLevel, "DEVPORTAL_LOG_LEVEL")
	setString(&c.HubsCollection, "DEVPORTAL_HUBS_COLLECTION")
	setString(&c.DevicesCollection, "DEVPORTAL_DEVICES_COLLECTION")
	setString(&c.AdminEmail, "DEVPORTAL_ADMIN_EMAIL")
	setString(&c.AdminPasswordHash, "DEVPORTAL_ADMIN_PASSWORD_HASH")
	setString(&c.QRSecret, "DEVPORTAL_QR_SECRET")
	if v := getEnvInt("DEVPORTAL_MAX_ATTEMPTS", 0); v > 0 { c.MaxAttempts = v }
	if v := getEnvInt("DEVPORTAL_LOGIN_RATE", 0); v > 0 { c.LoginRatePerMin = v }
	if v := os.Getenv("DEVPORTAL_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil { c.SessionTTL = d }
	}
	if v := os.Getenv("DEVPORTAL_ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" { c.AllowedOrigins = append(c.AllowedOrigins, o) }
		}
	}
}

// ConfFile is the resolved path of the optional YAML config file.
func ConfFile() string { return confFile() }

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" { *dst = v }
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
