package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Workflow      WorkflowConfig      `mapstructure:"workflow"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	AWS           AWSConfig           `mapstructure:"aws"`
	InternalToken string              `mapstructure:"internal_token"`
}

type AppConfig struct {
	AppName     string `mapstructure:"name"`
	Environment string `mapstructure:"env"`
	HTTPPort    string `mapstructure:"http_port"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	DBHost     string `mapstructure:"host"`
	DBPort     string `mapstructure:"port"`
	DBName     string `mapstructure:"name"`
	DBUser     string `mapstructure:"user"`
	DBPassword string `mapstructure:"password"`
	DBSSLMode  string `mapstructure:"ssl_mode"`

	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	PoolMaxConns          int32         `mapstructure:"pool_max_conns"`
	PoolMinConns          int32         `mapstructure:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `mapstructure:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `mapstructure:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `mapstructure:"pool_health_check_period"`

	MigrationsDir string `mapstructure:"migrations_dir"`
}

// DSN renders the libpq keyword/value connection string understood by both
// pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(d.DBHost),
		strings.TrimSpace(d.DBPort),
		strings.TrimSpace(d.DBUser),
		d.DBPassword,
		strings.TrimSpace(d.DBName),
		strings.TrimSpace(d.DBSSLMode),
	)
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", strings.TrimSpace(r.Host), strings.TrimSpace(r.Port))
}

type JWTConfig struct {
	AccessSecret     string        `mapstructure:"access_secret"`
	RefreshSecret    string        `mapstructure:"refresh_secret"`
	AccessExpiresIn  time.Duration `mapstructure:"access_expires_in"`
	RefreshExpiresIn time.Duration `mapstructure:"refresh_expires_in"`
}

type WorkflowConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	APIKey             string        `mapstructure:"api_key"`
	Timeout            time.Duration `mapstructure:"timeout"`
	ShortlistTimeout   time.Duration `mapstructure:"shortlist_timeout"`
	CreateJobPath      string        `mapstructure:"create_job_path"`
	InterviewPackPath  string        `mapstructure:"interview_pack_path"`
	ShortlistEmailPath string        `mapstructure:"shortlist_email_path"`
}

const (
	ShortlistChannelWebhook = "webhook"
	ShortlistChannelSES     = "ses"
)

type NotificationsConfig struct {
	TTL              time.Duration `mapstructure:"ttl"`
	ShortlistChannel string        `mapstructure:"shortlist_channel"`
	FromEmail        string        `mapstructure:"from_email"`
	SendWorkers      int           `mapstructure:"send_workers"`
	SendRate         int           `mapstructure:"send_rate"`
}

type PipelineConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var defaults = map[string]any{
	"app.name":       "recruit-dash",
	"app.env":        "development",
	"app.http_port":  "8080",
	"app.log_level":  "info",
	"app.log_format": "console",

	"database.driver":                   "pgx",
	"database.host":                     "",
	"database.port":                     "5432",
	"database.name":                     "",
	"database.user":                     "",
	"database.password":                 "",
	"database.ssl_mode":                 "disable",
	"database.connect_timeout":          5 * time.Second,
	"database.pool_max_conns":           10,
	"database.pool_min_conns":           0,
	"database.pool_max_conn_lifetime":   time.Hour,
	"database.pool_max_conn_idle_time":  30 * time.Minute,
	"database.pool_health_check_period": time.Minute,
	"database.migrations_dir":           "migrations",

	"redis.enabled":  true,
	"redis.host":     "localhost",
	"redis.port":     "6379",
	"redis.password": "",
	"redis.db":       0,
	"redis.ttl":      60 * time.Second,

	"jwt.access_secret":      "",
	"jwt.refresh_secret":     "",
	"jwt.access_expires_in":  15 * time.Minute,
	"jwt.refresh_expires_in": 7 * 24 * time.Hour,

	"workflow.base_url":             "",
	"workflow.api_key":              "",
	"workflow.timeout":              30 * time.Second,
	"workflow.shortlist_timeout":    5 * time.Second,
	"workflow.create_job_path":      "/webhook/job-creation",
	"workflow.interview_pack_path":  "/webhook/generate-interview-pack",
	"workflow.shortlist_email_path": "/webhook/send-shortlist-email",

	"notifications.ttl":               5 * time.Second,
	"notifications.shortlist_channel": ShortlistChannelWebhook,
	"notifications.from_email":        "",
	"notifications.send_workers":      4,
	"notifications.send_rate":         10,

	"pipeline.strict_transitions": false,

	"aws.region": "us-east-1",

	"internal_token": "",
}

// Legacy flat variable names accepted next to the derived APP_HTTP_PORT style.
var aliases = map[string][]string{
	"app.name":          {"APP_NAME"},
	"app.env":           {"APP_ENV"},
	"app.http_port":     {"APP_HTTP_PORT", "HTTP_PORT"},
	"database.host":     {"DATABASE_HOST", "DB_HOST"},
	"database.port":     {"DATABASE_PORT", "DB_PORT"},
	"database.name":     {"DATABASE_NAME", "DB_NAME"},
	"database.user":     {"DATABASE_USER", "DB_USER"},
	"database.password": {"DATABASE_PASSWORD", "DB_PASSWORD"},
	"database.ssl_mode": {"DATABASE_SSL_MODE", "DB_SSL_MODE"},
	"workflow.api_key":  {"WORKFLOW_API_KEY", "HR_API_KEY"},
	"internal_token":    {"INTERNAL_TOKEN"},
}

// Load reads .env (if present), an optional config.yaml from . or ./configs,
// and the environment, in increasing order of precedence.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	trim(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func trim(cfg *Config) {
	cfg.App.HTTPPort = strings.TrimSpace(cfg.App.HTTPPort)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Workflow.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Workflow.BaseURL), "/")
	cfg.Notifications.ShortlistChannel = strings.ToLower(strings.TrimSpace(cfg.Notifications.ShortlistChannel))
	cfg.InternalToken = strings.TrimSpace(cfg.InternalToken)
}

func validate(cfg Config) error {
	var missing []string
	req := func(key, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, key)
		}
	}

	req("APP_HTTP_PORT", cfg.App.HTTPPort)
	req("DATABASE_HOST", cfg.Database.DBHost)
	req("DATABASE_NAME", cfg.Database.DBName)
	req("DATABASE_USER", cfg.Database.DBUser)
	req("JWT_ACCESS_SECRET", cfg.JWT.AccessSecret)
	req("JWT_REFRESH_SECRET", cfg.JWT.RefreshSecret)
	if cfg.Notifications.ShortlistChannel == ShortlistChannelSES {
		req("NOTIFICATIONS_FROM_EMAIL", cfg.Notifications.FromEmail)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	switch cfg.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	switch cfg.Notifications.ShortlistChannel {
	case ShortlistChannelWebhook, ShortlistChannelSES:
	default:
		return fmt.Errorf("unsupported shortlist channel %q", cfg.Notifications.ShortlistChannel)
	}
	return nil
}
