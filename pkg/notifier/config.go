package notifier

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/mongo"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/redis"
)

// Backend names accepted by the selector fields of Config.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config is the full service configuration. Nested structs keep their own
// variable names (SMTP_HOST, PG_CONN_URL, ...).
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notifykit"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`

	Brand            string `env:"NOTIFY_BRAND"`
	Locale           string `env:"NOTIFY_LOCALE" envDefault:"en"`
	PolicyFile       string `env:"NOTIFY_POLICY_FILE"`
	HonorPreferences bool   `env:"NOTIFY_HONOR_PREFERENCES" envDefault:"false"`

	Store           string `env:"NOTIFY_STORE" envDefault:"memory"`        // memory | postgres
	TokenRegistry   string `env:"PUSH_TOKEN_REGISTRY" envDefault:"memory"` // memory | redis
	Directory       string `env:"NOTIFY_DIRECTORY" envDefault:"memory"`    // memory | mongo
	UsersCollection string `env:"NOTIFY_USERS_COLLECTION" envDefault:"users"`

	DirectoryCacheSize int           `env:"NOTIFY_DIRECTORY_CACHE_SIZE" envDefault:"1000"` // 0 disables
	DirectoryCacheTTL  time.Duration `env:"NOTIFY_DIRECTORY_CACHE_TTL" envDefault:"5m"`

	Email    email.Config
	Push     push.Config
	Postgres pg.Config
	Redis    redis.Config
	Mongo    mongo.Config
}

// LoadConfig reads Config from the process environment and an optional
// .env file.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Parse(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
