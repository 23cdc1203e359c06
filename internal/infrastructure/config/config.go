package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	AI        AIConfig
	Letter    LetterConfig
	Printing  PrintingConfig
	Scheduler SchedulerConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// DefaultTenantID is used by public endpoints when no X-Tenant-ID header is sent
	DefaultTenantID string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, ":memory:" for tests
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. An empty host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Enabled reports whether a Redis server is configured
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
	MaxBodySize     int64
	// Per-client token bucket applied to every route
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	// Stricter bucket for public write endpoints (contact form, reviews, login)
	PublicRateLimitRPS   float64
	PublicRateLimitBurst int
	CORSAllowOrigins     []string
	CORSAllowMethods     []string
	CORSAllowHeaders     []string
	TrustedProxies       []string
	// HSTSMaxAge sends Strict-Transport-Security when positive
	HSTSMaxAge time.Duration
}

// StorageConfig selects where attachments and rendered artifacts are kept
type StorageConfig struct {
	Backend       string // s3 or filesystem
	LocalDir      string
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PresignExpiry time.Duration
	// PublicURL is where the filesystem backend serves signed object URLs
	PublicURL string
}

// AIConfig holds the generative model settings
type AIConfig struct {
	Enabled           bool
	APIKey            string
	Model             string
	Timeout           time.Duration
	MaxRequestsPerDay int
	RequestsPerMinute int
	Temperature       float64
	MaxOutputTokens   int
}

// LetterConfig holds letter workflow settings
type LetterConfig struct {
	VerificationBaseURL string
	DefaultVillageName  string
	RenderLockTTL       time.Duration
}

// PrintingConfig holds the headless browser settings used for PDFs
type PrintingConfig struct {
	ChromePath string
	Timeout    time.Duration
	PaperSize  string // A4 or F4
}

// SchedulerConfig holds background job configuration
type SchedulerConfig struct {
	Enabled               bool
	ArtifactSweepInterval time.Duration
	ArtifactSweepBatch    int
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled bool
	// RequireAuth asks for a staff token; forced on in production
	RequireAuth     bool
	Roles           []string
	AllowedNetworks []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
	ProfilingEnabled  bool
	PyroscopeAddress  string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with DESA_ prefix (e.g., DESA_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/desa")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DESA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:            v.GetString("app.name"),
			Env:             v.GetString("app.env"),
			Port:            v.GetString("app.port"),
			DefaultTenantID: v.GetString("app.default_tenant_id"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        v.GetInt("jwt.max_refresh_count"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:          v.GetDuration("http.read_timeout"),
			WriteTimeout:         v.GetDuration("http.write_timeout"),
			IdleTimeout:          v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:      v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:       v.GetInt("http.max_header_bytes"),
			MaxBodySize:          v.GetInt64("http.max_body_size"),
			RateLimitEnabled:     v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:         v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:       v.GetInt("http.rate_limit_burst"),
			PublicRateLimitRPS:   v.GetFloat64("http.public_rate_limit_rps"),
			PublicRateLimitBurst: v.GetInt("http.public_rate_limit_burst"),
			CORSAllowOrigins:     v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:     v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:     v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:       v.GetStringSlice("http.trusted_proxies"),
			HSTSMaxAge:           v.GetDuration("http.hsts_max_age"),
		},
		Storage: StorageConfig{
			Backend:       v.GetString("storage.backend"),
			LocalDir:      v.GetString("storage.local_dir"),
			Endpoint:      v.GetString("storage.endpoint"),
			Region:        v.GetString("storage.region"),
			Bucket:        v.GetString("storage.bucket"),
			AccessKey:     v.GetString("storage.access_key"),
			SecretKey:     v.GetString("storage.secret_key"),
			UsePathStyle:  v.GetBool("storage.use_path_style"),
			PresignExpiry: v.GetDuration("storage.presign_expiry"),
			PublicURL:     v.GetString("storage.public_url"),
		},
		AI: AIConfig{
			Enabled:           v.GetBool("ai.enabled"),
			APIKey:            v.GetString("ai.api_key"),
			Model:             v.GetString("ai.model"),
			Timeout:           v.GetDuration("ai.timeout"),
			MaxRequestsPerDay: v.GetInt("ai.max_requests_per_day"),
			RequestsPerMinute: v.GetInt("ai.requests_per_minute"),
			Temperature:       v.GetFloat64("ai.temperature"),
			MaxOutputTokens:   v.GetInt("ai.max_output_tokens"),
		},
		Letter: LetterConfig{
			VerificationBaseURL: v.GetString("letter.verification_base_url"),
			DefaultVillageName:  v.GetString("letter.default_village_name"),
			RenderLockTTL:       v.GetDuration("letter.render_lock_ttl"),
		},
		Printing: PrintingConfig{
			ChromePath: v.GetString("printing.chrome_path"),
			Timeout:    v.GetDuration("printing.timeout"),
			PaperSize:  v.GetString("printing.paper_size"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               v.GetBool("scheduler.enabled"),
			ArtifactSweepInterval: v.GetDuration("scheduler.artifact_sweep_interval"),
			ArtifactSweepBatch:    v.GetInt("scheduler.artifact_sweep_batch"),
		},
		Swagger: SwaggerConfig{
			Enabled:         v.GetBool("swagger.enabled"),
			RequireAuth:     v.GetBool("swagger.require_auth"),
			Roles:           v.GetStringSlice("swagger.roles"),
			AllowedNetworks: v.GetStringSlice("swagger.allowed_networks"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "desa-api"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "desa"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "desa.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host != "" && cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "desa-api"
	}
	if cfg.JWT.MaxRefreshCount == 0 {
		cfg.JWT.MaxRefreshCount = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 20
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 40
	}
	if cfg.HTTP.PublicRateLimitRPS == 0 {
		cfg.HTTP.PublicRateLimitRPS = 0.1
	}
	if cfg.HTTP.PublicRateLimitBurst == 0 {
		cfg.HTTP.PublicRateLimitBurst = 5
	}
	// No CORS origin default: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID"}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "filesystem"
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./data/storage"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "ap-southeast-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "desa"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Storage.PublicURL == "" {
		cfg.Storage.PublicURL = "http://localhost:" + cfg.App.Port + "/api/v1/files"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-2.0-flash"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 30 * time.Second
	}
	if cfg.AI.MaxRequestsPerDay == 0 {
		cfg.AI.MaxRequestsPerDay = 1000
	}
	if cfg.AI.RequestsPerMinute == 0 {
		cfg.AI.RequestsPerMinute = 30
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.3
	}
	if cfg.AI.MaxOutputTokens == 0 {
		cfg.AI.MaxOutputTokens = 2048
	}
	if cfg.Letter.VerificationBaseURL == "" {
		cfg.Letter.VerificationBaseURL = "http://localhost:" + cfg.App.Port + "/api/v1/public/letters"
	}
	if cfg.Letter.DefaultVillageName == "" {
		cfg.Letter.DefaultVillageName = "Desa Pulosarok"
	}
	if cfg.Letter.RenderLockTTL == 0 {
		cfg.Letter.RenderLockTTL = 2 * time.Minute
	}
	if cfg.Printing.Timeout == 0 {
		cfg.Printing.Timeout = 30 * time.Second
	}
	if cfg.Printing.PaperSize == "" {
		cfg.Printing.PaperSize = "A4"
	}
	if cfg.Scheduler.ArtifactSweepInterval == 0 {
		cfg.Scheduler.ArtifactSweepInterval = time.Hour
	}
	if cfg.Scheduler.ArtifactSweepBatch == 0 {
		cfg.Scheduler.ArtifactSweepBatch = 200
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	switch c.Storage.Backend {
	case "filesystem":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be s3 or filesystem, got %q", c.Storage.Backend)
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai.enabled is true")
	}
	if c.AI.MaxRequestsPerDay < 0 || c.AI.RequestsPerMinute < 0 {
		return fmt.Errorf("ai request limits cannot be negative")
	}
	switch strings.ToUpper(c.Printing.PaperSize) {
	case "A4", "F4":
	default:
		return fmt.Errorf("printing.paper_size must be A4 or F4, got %q", c.Printing.PaperSize)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "postgres" {
			if c.Database.Password == "" {
				return fmt.Errorf("database.password is required in production")
			}
			if c.Database.SSLMode == "disable" {
				return fmt.Errorf("database.sslmode cannot be 'disable' in production")
			}
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.Path
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
