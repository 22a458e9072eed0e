package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Reverb account used to see the price-guide sale history. Required for
	// the scrape stage, never defaulted.
	ReverbUsername string
	ReverbPassword string

	SignInURL     string
	PriceGuideURL string

	// PagesToCrawl bounds the index pagination loop; the crawl also stops
	// early when no "Next" control is present.
	PagesToCrawl int

	LoginWait  time.Duration
	IndexWait  time.Duration
	RecordWait time.Duration

	LinksPath    string
	RecordsPath  string
	CleanedPath  string
	FeaturesPath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// ResumeFromLinks skips link collection and reuses the persisted link
	// file, picking a crashed crawl back up at record extraction.
	ResumeFromLinks bool

	ChromeBin string
	Debug     bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ReverbUsername: os.Getenv("REVERB_USERNAME"),
		ReverbPassword: os.Getenv("REVERB_PASSWORD"),

		SignInURL:     getEnv("SIGNIN_URL", "https://reverb.com/signin"),
		PriceGuideURL: getEnv("PRICE_GUIDE_URL", "https://reverb.com/price-guide/electric-guitars"),

		PagesToCrawl: getEnvInt("PAGES_TO_CRAWL", 213),

		LoginWait:  getEnvSeconds("LOGIN_WAIT_SECONDS", 3),
		IndexWait:  getEnvSeconds("INDEX_WAIT_SECONDS", 60),
		RecordWait: getEnvSeconds("RECORD_WAIT_SECONDS", 1),

		LinksPath:    getEnv("LINKS_PATH", "./data/listing_links.jsonl"),
		RecordsPath:  getEnv("RECORDS_PATH", "./data/sale_records.jsonl"),
		CleanedPath:  getEnv("CLEANED_PATH", "./data/guitar_sales.csv"),
		FeaturesPath: getEnv("FEATURES_PATH", "./data/guitar_features.csv"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "guitar_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		ResumeFromLinks: getEnvBool("RESUME_FROM_LINKS", false),

		ChromeBin: getEnv("CHROME_BIN", ""),
		Debug:     getEnvBool("LOG_DEBUG", false),
	}
}

// ValidateCredentials fails when the login secrets are absent. Only the
// scrape stage needs them; transform runs offline.
func (c *Config) ValidateCredentials() error {
	if c.ReverbUsername == "" || c.ReverbPassword == "" {
		return fmt.Errorf("config: REVERB_USERNAME and REVERB_PASSWORD must be set")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
