package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
type Config struct {
	Environment string            `yaml:"environment"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Server      ServerConfig      `yaml:"server"`
	Edition     EditionConfig     `yaml:"edition"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Storage     StorageConfig     `yaml:"storage"`
}

type CredentialsConfig struct {
	// If empty, read from env TWITTER_CONSUMER_KEY / TWITTER_CONSUMER_SECRET
	ConsumerKey    string `yaml:"consumerKey" validate:"required"`
	ConsumerSecret string `yaml:"consumerSecret" validate:"required"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
	// Base URL the OAuth callback is built from. Derived from the request when empty.
	PublicURL   string        `yaml:"publicURL" validate:"omitempty,url"`
	SessionTTL  time.Duration `yaml:"sessionTTL" validate:"gt=0"`
	ServiceName string        `yaml:"serviceName"`
}

type EditionConfig struct {
	// How many days' worth of posts count towards an edition.
	DaysToFetch int `yaml:"daysToFetch" validate:"gte=1"`
	// How many posts an edition shows at most.
	MaxItems int `yaml:"maxItems" validate:"gte=1"`
	// Score = favorites + RetweetWeight * retweets.
	RetweetWeight int `yaml:"retweetWeight" validate:"gte=0"`
	BatchSize     int `yaml:"batchSize" validate:"gte=1,lte=200"`
}

type UpstreamConfig struct {
	APIBaseURL string        `yaml:"apiBaseURL" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	RPS        float64       `yaml:"rps" validate:"gte=0"`
	Burst      int           `yaml:"burst" validate:"gte=0"`
}

type StorageConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=sqlite redis"`
	DBPath   string `yaml:"dbPath" validate:"required_if=Driver sqlite"`
	RedisURL string `yaml:"redisURL" validate:"required_if=Driver redis"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		Environment: "development",
		Server:      ServerConfig{Addr: ":8080", SessionTTL: 30 * time.Minute, ServiceName: "besttweets"},
		Edition:     EditionConfig{DaysToFetch: 1, MaxItems: 3, RetweetWeight: 2, BatchSize: 200},
		Upstream:    UpstreamConfig{APIBaseURL: "https://api.twitter.com", Timeout: 10 * time.Second, RPS: 2, Burst: 10},
		Storage:     StorageConfig{Driver: "sqlite", DBPath: "./besttweets.db"},
	}
}

// Development reports whether verbose logging and debug routes are wanted.
func (c Config) Development() bool { return c.Environment == "" || c.Environment == "development" }

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.Credentials.ConsumerKey == "" {
		c.Credentials.ConsumerKey = os.Getenv("TWITTER_CONSUMER_KEY")
	}
	if c.Credentials.ConsumerSecret == "" {
		c.Credentials.ConsumerSecret = os.Getenv("TWITTER_CONSUMER_SECRET")
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("PUBLIC_URL"); v != "" {
		c.Server.PublicURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("REDISCLOUD_URL"); v != "" {
		c.Storage.Driver = "redis"
		c.Storage.RedisURL = v
	}
}

var validate = validator.New()

// Validate checks the settings the service cannot start without.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Load reads YAML config from path over the defaults. A missing file is not an error;
// the defaults plus environment are used instead.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
