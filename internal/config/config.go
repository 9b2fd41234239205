package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	Data struct {
		MasterURL   string
		RevisionURL string
		InsecureTLS bool
		Timeout     time.Duration
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	Uploads struct {
		MaxBytes int64
		TTL      time.Duration
	}
	Documents struct {
		Dir         string
		Company     []Document
		Competitors []Document
	}
	Companion struct {
		Command string
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
}

// Document is one selectable PDF: a display label and a path under
// Documents.Dir or an absolute http(s) URL.
type Document struct {
	Label    string
	Location string
}

const (
	defaultMasterURL   = "https://raw.githubusercontent.com/HelenWei1128/Datasheetdb/main/Datasheetdata04.csv"
	defaultRevisionURL = "https://raw.githubusercontent.com/HelenWei1128/Datasheetdb/main/Datasheetdatalist.csv"
	defaultCompanyPDFs = "AEP820B08TFLTMM=https://raw.githubusercontent.com/HelenWei1128/Datasheetdb/main/2024AEP820B08TFLTMM0909.pdf"
	defaultRivalPDFs   = "test.pdf=https://raw.githubusercontent.com/HelenWei1128/Datasheetdb/main/test.pdf"
)

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8050")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:8050")

	// Datasheet sources
	cfg.Data.MasterURL = getEnv("DATASHEET_URL", defaultMasterURL)
	cfg.Data.RevisionURL = getEnv("DATASHEET_REVISIONS_URL", defaultRevisionURL)
	cfg.Data.InsecureTLS = getEnvAsBool("DATASHEET_INSECURE_TLS", true)
	cfg.Data.Timeout = getEnvAsDuration("DATASHEET_TIMEOUT", 30*time.Second)

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Uploads
	cfg.Uploads.MaxBytes = int64(getEnvAsInt("UPLOAD_MAX_BYTES", 20<<20))
	cfg.Uploads.TTL = getEnvAsDuration("UPLOAD_TTL", 2*time.Hour)

	// Documents
	cfg.Documents.Dir = getEnv("DOCUMENTS_DIR", "./assets")
	cfg.Documents.Company = getEnvAsDocuments("COMPANY_PDFS", defaultCompanyPDFs)
	cfg.Documents.Competitors = getEnvAsDocuments("COMPETITOR_PDFS", defaultRivalPDFs)

	// Companion app started from /diagrams2
	cfg.Companion.Command = getEnv("COMPANION_COMMAND", "")

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}

// getEnvAsDocuments reads "label=location;label=location". An entry without
// "=" uses its location as label.
func getEnvAsDocuments(key, defaultValue string) []Document {
	return ParseDocuments(getEnv(key, defaultValue))
}

func ParseDocuments(value string) []Document {
	var docs []Document
	for _, entry := range strings.Split(value, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		label, location, ok := strings.Cut(entry, "=")
		if !ok {
			label, location = entry, entry
		}
		docs = append(docs, Document{Label: strings.TrimSpace(label), Location: strings.TrimSpace(location)})
	}
	return docs
}
