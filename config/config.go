package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// AppConfig holds environment driven configuration values.
// The JWT secret has no default and must come from config.json, .env or the environment.
type AppConfig struct {
	AppPort        string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	AllowedOrigins []string
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Observability
	MetricsEnabled bool
}

// Options controls where Load looks for configuration files.
type Options struct {
	// JSONPath is the optional JSON config file. Defaults to config/config.json.
	JSONPath string
	// EnvFile is the optional dotenv file. Defaults to .env.
	EnvFile string
}

// ErrMissingSecret is returned when no JWT secret was configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Load resolves the application configuration once at boot.
// Precedence: .env (fills unset env vars) -> config.json -> defaults -> environment overrides.
func Load(opts Options) (AppConfig, error) {
	if opts.JSONPath == "" {
		opts.JSONPath = filepath.Join("config", "config.json")
	}
	if opts.EnvFile == "" {
		opts.EnvFile = ".env"
	}

	if _, err := os.Stat(opts.EnvFile); err == nil {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return AppConfig{}, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	var cfg AppConfig
	cfg.MetricsEnabled = true
	if err := loadJSONConfig(opts.JSONPath, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("load %s: %w", opts.JSONPath, err)
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return AppConfig{}, err
	}

	if cfg.JWTSecret == "" {
		return AppConfig{}, ErrMissingSecret
	}
	return cfg, nil
}

// fileConfig mirrors config.json. Sections are optional.
type fileConfig struct {
	App struct {
		AppPort        string   `json:"AppPort"`
		JWTSecret      string   `json:"JWTSecret"`
		TokenTTL       string   `json:"TokenTTL"`
		BcryptCost     int      `json:"BcryptCost"`
		AllowedOrigins []string `json:"AllowedOrigins"`
		GinMode        string   `json:"GinMode"`
		GinPath        string   `json:"GinPath"`
		MetricsEnabled *bool    `json:"MetricsEnabled"`
	} `json:"app"`
	Database struct {
		Driver     string `json:"Driver"`
		URI        string `json:"URI"`
		Host       string `json:"Host"`
		Port       string `json:"Port"`
		User       string `json:"User"`
		Password   string `json:"Password"`
		Name       string `json:"Name"`
		SQLitePath string `json:"SQLitePath"`
	} `json:"database"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
}

// loadJSONConfig reads the JSON file into out if present. Only invalid JSON is an error.
func loadJSONConfig(path string, out *AppConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil // missing file is fine
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return err
	}

	out.AppPort = fc.App.AppPort
	out.JWTSecret = fc.App.JWTSecret
	if fc.App.TokenTTL != "" {
		d, err := time.ParseDuration(fc.App.TokenTTL)
		if err != nil {
			return fmt.Errorf("invalid TokenTTL %q: %w", fc.App.TokenTTL, err)
		}
		out.TokenTTL = d
	}
	out.BcryptCost = fc.App.BcryptCost
	out.AllowedOrigins = fc.App.AllowedOrigins
	out.GinMode = fc.App.GinMode
	out.GinPath = fc.App.GinPath
	if fc.App.MetricsEnabled != nil {
		out.MetricsEnabled = *fc.App.MetricsEnabled
	}

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.URI
	out.DBHost = fc.Database.Host
	out.DBPort = fc.Database.Port
	out.DBUser = fc.Database.User
	out.DBPassword = fc.Database.Password
	out.DBName = fc.Database.Name
	out.SQLitePath = fc.Database.SQLitePath

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5000"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = bcrypt.DefaultCost
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		c.DBPort = "3306"
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "microforum"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "microforum.db"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("PORT", ""); v != "" { // compatibility
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("TOKEN_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL %q: %w", v, err)
		}
		c.TokenTTL = d
	}
	if v := getEnv("BCRYPT_COST", ""); v != "" {
		n, err := parseInt("BCRYPT_COST", v)
		if err != nil {
			return err
		}
		c.BcryptCost = n
	}
	c.AllowedOrigins = readListEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	for key, dst := range map[string]*int{
		"LOG_MAX_SIZE_MB":  &c.LogMaxSizeMB,
		"LOG_MAX_BACKUPS":  &c.LogMaxBackups,
		"LOG_MAX_AGE_DAYS": &c.LogMaxAgeDays,
	} {
		if v := getEnv(key, ""); v != "" {
			n, err := parseInt(key, v)
			if err != nil {
				return err
			}
			*dst = n
		}
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = parseBool(v)
	}
	if v := getEnv("METRICS_ENABLED", ""); v != "" {
		c.MetricsEnabled = parseBool(v)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, val)
	}
	return i, nil
}

func parseBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
