package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    string
	LogMode string

	DBDriver       string // postgres, mysql, sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSQLitePath   string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBAutoMigrate  bool

	JWTKey    string
	JWTTTL    time.Duration
	SaltRound int

	PublicBaseURL string
	CORSOrigins   string
	UploadDir     string

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	RendererMode        string // local, http, none
	RendererURL         string
	RendererTimeout     time.Duration
	CertificateDir      string
	CertificateFontPath string

	ReconcileCron   string
	RenderRetryCron string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:    getEnv("PORT", "5000"),
		LogMode: getEnv("LOG_MODE", "dev"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "learnhub"),
		DBSQLitePath:   getEnv("DB_SQLITE_PATH", "learnhub.db"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBAutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),

		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		JWTTTL:    getEnvDuration("JWT_TTL", 24*time.Hour),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		UploadDir:     getEnv("UPLOAD_DIR", "./public/uploads"),

		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendgridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "no-reply@learnhub.dev"),
		SendgridFromName:  getEnv("SENDGRID_FROM_NAME", "LearnHub"),

		RendererMode:        strings.ToLower(getEnv("RENDERER_MODE", "local")),
		RendererURL:         getEnv("RENDERER_URL", ""),
		RendererTimeout:     getEnvDuration("RENDERER_TIMEOUT", 30*time.Second),
		CertificateDir:      getEnv("CERTIFICATE_DIR", "./public/certificates"),
		CertificateFontPath: getEnv("CERTIFICATE_FONT_PATH", ""),

		ReconcileCron:   getEnv("RECONCILE_CRON", "0 3 * * *"),
		RenderRetryCron: getEnv("RENDER_RETRY_CRON", "*/15 * * * *"),
	}

	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	return AppConfig
}

// Validate reports configuration that would make the service unusable.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of postgres, mysql, sqlite")
	}
	switch c.RendererMode {
	case "local", "none":
	case "http":
		if c.RendererURL == "" {
			return errors.New("RENDERER_URL is required when RENDERER_MODE=http")
		}
	default:
		return errors.New("RENDERER_MODE must be one of local, http, none")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}
