package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided
// via the config file or the environment.
type AppConfig struct {
	AppPort string `json:"app_port"`
	GinMode string `json:"gin_mode"`

	JWTSecret     string `json:"jwt_secret"`
	TokenTTLHours int    `json:"token_ttl_hours"`

	DatabaseURI string `json:"database_uri"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBName      string `json:"db_name"`

	// Redis for listing cache and the JWT revocation list
	RedisHost     string `json:"redis_host"`
	RedisPort     int    `json:"redis_port"`
	RedisDB       int    `json:"redis_db"`
	RedisPassword string `json:"redis_password"`

	// Local asset storage, served by the web tier under /uploads
	UploadsDir string `json:"uploads_dir"`

	// Remote object storage (S3 compatible). The remote backend is only
	// selected when bucket and credentials are all present.
	S3Endpoint        string `json:"s3_endpoint"`
	S3Region          string `json:"s3_region"`
	S3Bucket          string `json:"s3_bucket"`
	S3AccessKeyID     string `json:"s3_access_key_id"`
	S3SecretAccessKey string `json:"s3_secret_access_key"`
	S3PublicBaseURL   string `json:"s3_public_base_url"`
	S3UsePathStyle    bool   `json:"s3_use_path_style"`

	// Bootstrap admin account, created once when the users table is empty
	AdminUsername    string `json:"admin_username"`
	AdminPassword    string `json:"admin_password"`
	AdminDisplayName string `json:"admin_display_name"`

	RateLimitPerMinute int      `json:"rate_limit_per_minute"`
	AllowedOrigins     []string `json:"allowed_origins"`

	// Logging configuration
	LogLevel      string `json:"log_level"`
	LogPath       string `json:"log_path"`
	LogMaxSizeMB  int    `json:"log_max_size_mb"`
	LogMaxBackups int    `json:"log_max_backups"`
	LogMaxAgeDays int    `json:"log_max_age_days"`
	LogCompress   bool   `json:"log_compress"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. Precedence:
// config/config.json -> defaults -> environment variable overrides.
// It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	_ = loadJSONConfig(filepath.Join("config", "config.json"), &cfg)
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// RemoteStorageConfigured reports whether the S3 backend can be selected.
func (c AppConfig) RemoteStorageConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// loadJSONConfig reads a flat JSON file into cfg if present. A missing file
// is not an error; invalid JSON is.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}

func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.TokenTTLHours <= 0 {
		c.TokenTTLHours = 24
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "cms"
	}
	if c.DBName == "" {
		c.DBName = "cms"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.UploadsDir == "" {
		c.UploadsDir = filepath.Join(".", "static", "uploads")
	}
	if c.S3Region == "" {
		c.S3Region = "eu-central-1"
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = 20
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenTTLHours = getEnvInt("TOKEN_TTL_HOURS", c.TokenTTLHours)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	c.RedisPort = getEnvInt("REDIS_PORT", c.RedisPort)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.UploadsDir = getEnv("UPLOADS_DIR", c.UploadsDir)
	c.S3Endpoint = getEnv("S3_ENDPOINT", c.S3Endpoint)
	c.S3Region = getEnv("S3_REGION", c.S3Region)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3AccessKeyID = getEnv("S3_ACCESS_KEY_ID", c.S3AccessKeyID)
	c.S3SecretAccessKey = getEnv("S3_SECRET_ACCESS_KEY", c.S3SecretAccessKey)
	c.S3PublicBaseURL = getEnv("S3_PUBLIC_BASE_URL", c.S3PublicBaseURL)
	c.S3UsePathStyle = getEnvBool("S3_USE_PATH_STYLE", c.S3UsePathStyle)
	c.AdminUsername = getEnv("ADMIN_USERNAME", c.AdminUsername)
	c.AdminPassword = getEnv("ADMIN_PASSWORD", c.AdminPassword)
	c.AdminDisplayName = getEnv("ADMIN_DISPLAY_NAME", c.AdminDisplayName)
	c.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", c.RateLimitPerMinute)
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)
	c.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", c.LogMaxSizeMB)
	c.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", c.LogMaxBackups)
	c.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", c.LogMaxAgeDays)
	c.LogCompress = getEnvBool("LOG_COMPRESS", c.LogCompress)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
