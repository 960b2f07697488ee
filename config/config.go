package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/saasgate/pkg/db"
	"github.com/dmitrymomot/saasgate/pkg/locale"
	"github.com/dmitrymomot/saasgate/pkg/logger"
	"github.com/dmitrymomot/saasgate/pkg/mailer"
	"github.com/dmitrymomot/saasgate/pkg/mailer/resend"
	"github.com/dmitrymomot/saasgate/pkg/redis"
	"github.com/dmitrymomot/saasgate/pkg/token"
)

// DefaultEnvFiles are read by Load when no files are given.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config is the full server configuration.
type Config struct {
	App    App
	DB     db.Config
	Redis  redis.Config
	Logger logger.Config
	Mailer mailer.Config
	Resend resend.Config
}

// App holds the settings of the HTTP server, the gate and background jobs.
type App struct {
	Addr    string `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// HMAC key of session tokens, at least 32 bytes.
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CookieDomain  string        `env:"COOKIE_DOMAIN"`

	DefaultLocale     string   `env:"APP_DEFAULT_LOCALE" envDefault:"en"`
	Locales           []string `env:"APP_LOCALES" envDefault:"en,es" envSeparator:","`
	ProtectedPrefixes []string `env:"GATE_PROTECTED_PREFIXES" envDefault:"/dashboard" envSeparator:","`

	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	ActivityRetention time.Duration `env:"ACTIVITY_RETENTION" envDefault:"2160h"`
	PruneSchedule     string        `env:"ACTIVITY_PRUNE_SCHEDULE" envDefault:"0 3 * * *"`
	JobWorkers        int           `env:"JOB_WORKERS" envDefault:"10"`

	MetricsNamespace string        `env:"METRICS_NAMESPACE" envDefault:"saasgate"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load reads the first existing env file (DefaultEnvFiles when none are
// given), then parses the process environment. Variables already set in the
// environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			break
		}
	}
	return parse(env.Options{})
}

// FromMap parses configuration from vars only, ignoring the process
// environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the env tags cannot express.
func (c *Config) Validate() error {
	if len(c.App.SessionSecret) < token.MinSecretLength {
		return fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, token.MinSecretLength)
	}
	if _, err := c.App.LocaleSet(); err != nil {
		return errors.Join(ErrInvalidLocale, err)
	}
	if c.App.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalidValue)
	}
	if c.App.ActivityRetention <= 0 {
		return fmt.Errorf("%w: ACTIVITY_RETENTION must be positive", ErrInvalidValue)
	}
	for _, p := range c.App.ProtectedPrefixes {
		if !strings.HasPrefix(strings.TrimSpace(p), "/") {
			return fmt.Errorf("%w: protected prefix %q must start with /", ErrInvalidValue, p)
		}
	}
	return nil
}

// LocaleSet builds the supported locale set.
func (a App) LocaleSet() (*locale.Set, error) {
	return locale.NewSet(a.DefaultLocale, a.Locales...)
}
