package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the storefront.
type Config struct {
	Env         string
	Port        string
	CORSOrigins []string

	Database   Database
	Auth       Auth
	Cloudinary Cloudinary
	AI         AI
	RateLimit  RateLimit
	Firebase   Firebase
}

type Database struct {
	Driver     string // "postgres" or "sqlite"
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
	SearchMode string // "trigram" or "like"
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Configured reports whether all three credentials are present.
func (c Cloudinary) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type AI struct {
	APIKey        string
	Model         string
	ReviewEnabled bool
}

type RateLimit struct {
	RedisURL string
}

type Firebase struct {
	CredentialsJSON string
	ProjectID       string
}

// Configured reports whether Google sign-in can be initialised.
func (f Firebase) Configured() bool {
	return f.CredentialsJSON != "" && f.ProjectID != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getenv("APP_ENV", "development"),
		Port:        getenv("PORT", "8080"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "*")),
		Database: Database{
			Driver:     strings.ToLower(getenv("DB_DRIVER", "postgres")),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getenv("DB_HOST", "localhost"),
			Port:       getenv("DB_PORT", "5432"),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASSWORD"),
			Name:       os.Getenv("DB_NAME"),
			SQLitePath: getenv("SQLITE_PATH", "storefront.db"),
			SearchMode: strings.ToLower(os.Getenv("SEARCH_MODE")),
		},
		Auth: Auth{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  30 * 24 * time.Hour,
		},
		Cloudinary: Cloudinary{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getenv("CLOUDINARY_FOLDER", "ecommerce-products"),
		},
		AI: AI{
			APIKey:        os.Getenv("GEMINI_API_KEY"),
			Model:         getenv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
			ReviewEnabled: getbool("AI_REVIEW_ENABLED", false),
		},
		RateLimit: RateLimit{
			RedisURL: os.Getenv("REDIS_URL"),
		},
		Firebase: Firebase{
			CredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		},
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL %q: %w", ttl, err)
		}
		cfg.Auth.TokenTTL = d
	}

	if cfg.Database.SearchMode == "" {
		cfg.Database.SearchMode = "like"
		if cfg.Database.Driver == "postgres" {
			cfg.Database.SearchMode = "trigram"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Database.SearchMode {
	case "trigram":
		if c.Database.Driver != "postgres" {
			return errors.New("SEARCH_MODE=trigram requires DB_DRIVER=postgres")
		}
	case "like":
	default:
		return fmt.Errorf("unsupported SEARCH_MODE %q", c.Database.SearchMode)
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the postgres connection string, preferring DATABASE_URL.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
