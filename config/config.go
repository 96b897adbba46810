package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"rental-backend/utils"
)

// Supported values for DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the full runtime configuration, read from the environment.
type Config struct {
	Port    string
	GinMode string

	DBDriver          string
	DatabaseURL       string
	DBUser            string
	DBPass            string
	DBHost            string
	DBPort            string
	DBName            string
	SQLitePath        string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int

	AIAPIKey    string
	AIModel     string
	AIBaseURL   string
	AIMaxTokens int

	CORSOrigins []string

	LogLevel string
	LogFile  string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() *Config {
	cfg := &Config{
		Port:    utils.EnvOrDefault("PORT", "8080"),
		GinMode: utils.EnvOrDefault("GIN_MODE", "debug"),

		DBDriver:          strings.ToLower(utils.EnvOrDefault("DB_DRIVER", DriverMySQL)),
		DatabaseURL:       utils.EnvOrDefault("MYSQL_URL", utils.EnvOrDefault("DATABASE_URL", "")),
		DBUser:            utils.EnvOrDefault("DB_USER", "root"),
		DBPass:            utils.EnvOrDefault("DB_PASS", ""),
		DBHost:            utils.EnvOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:            utils.EnvOrDefault("DB_PORT", ""),
		DBName:            utils.EnvOrDefault("DB_NAME", "rental_db"),
		SQLitePath:        utils.EnvOrDefault("SQLITE_PATH", "rental.db"),
		DBMaxOpenConns:    utils.EnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:    utils.EnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: time.Duration(utils.EnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,

		SecretKey:                utils.EnvOrDefault("SECRET_KEY", ""),
		Algorithm:                strings.ToUpper(utils.EnvOrDefault("ALGORITHM", "HS256")),
		AccessTokenExpireMinutes: utils.EnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),

		AIAPIKey:    utils.EnvOrDefault("AI_API_KEY", ""),
		AIModel:     utils.EnvOrDefault("AI_MODEL", "claude-3-5-haiku-latest"),
		AIBaseURL:   utils.EnvOrDefault("AI_BASE_URL", ""),
		AIMaxTokens: utils.EnvInt("AI_MAX_TOKENS", 1024),

		CORSOrigins: parseCorsOrigins(utils.EnvOrDefault("CORS_ORIGINS", "")),

		LogLevel: strings.ToLower(utils.EnvOrDefault("LOG_LEVEL", "info")),
		LogFile:  utils.EnvOrDefault("LOG_FILE", ""),

		AdminEmail:    utils.EnvOrDefault("ADMIN_EMAIL", "admin@rental.local"),
		AdminPassword: utils.EnvOrDefault("ADMIN_PASSWORD", ""),
		AdminName:     utils.EnvOrDefault("ADMIN_NAME", "Administrator"),
	}
	if cfg.SecretKey == "" && cfg.GinMode != "release" {
		cfg.SecretKey = "dev-secret-change-me"
	}
	return cfg
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported token ALGORITHM %q", c.Algorithm)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must be set")
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// DSN resolves the connection string for the configured driver.
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case DriverSQLite:
		return c.SQLitePath, nil
	case DriverPostgres:
		if c.DatabaseURL != "" {
			return c.DatabaseURL, nil
		}
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		sslMode := "require"
		if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPass, c.DBName, port, sslMode), nil
	default:
		if c.DatabaseURL != "" {
			if strings.HasPrefix(c.DatabaseURL, "mysql://") {
				return mysqlDSNFromURL(c.DatabaseURL)
			}
			return c.DatabaseURL, nil
		}
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPass, c.DBHost, port, c.DBName), nil
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func parseCorsOrigins(raw string) []string {
	origins := utils.SplitList(raw)
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
