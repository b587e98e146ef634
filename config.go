package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config is resolved once at process start. Nothing else in the codebase
// reads the environment.
type Config struct {
	Addr    string
	DBDSN   string
	BaseURL string // public origin, used to build stored blob URLs

	JWTSecret []byte
	TokenTTL  time.Duration

	UploadDir string // content root for uploaded blobs

	FrontendURL string // base of the reset-password link

	SuperAdminEmail     string
	SuperAdminPassword  string
	DefaultUserPassword string // admin-provisioned accounts start with this

	// Per-field defaults for loosely validated enum-ish inputs.
	DefaultCountryCode    string
	DefaultClientProvided string
	DefaultRelationship   string

	RelayBaseURL        string
	RelayTimeout        time.Duration
	RelayEmailsPath     string
	RelayPhonesPath     string
	RelayUsernamesPath  string
	RelayAddressesPath  string
	RelayFacialURLsPath string
}

func loadConfig() Config {
	loadDotEnv()
	return Config{
		Addr:    envOr("LISTEN_ADDR", ":8000"),
		DBDSN:   os.Getenv("DB_DSN"),
		BaseURL: strings.TrimRight(envOr("BASE_URL", "http://localhost:8000"), "/"),

		JWTSecret: []byte(envOr("JWT_SECRET", "dev-insecure-secret-change")),
		TokenTTL:  time.Duration(envInt("TOKEN_TTL_MINUTES", 2500)) * time.Minute,

		UploadDir: envOr("UPLOAD_DIR", filepath.Join("uploads", "client_images")),

		FrontendURL: strings.TrimRight(envOr("FRONTEND_URL", "http://localhost:3000"), "/"),

		SuperAdminEmail:     envOr("SUPER_ADMIN_EMAIL", "admin@caseiq.local"),
		SuperAdminPassword:  envOr("SUPER_ADMIN_PASSWORD", "Admin@124"),
		DefaultUserPassword: envOr("DEFAULT_USER_PASSWORD", "Test@123"),

		DefaultCountryCode:    envOr("DEFAULT_COUNTRY_CODE", "+1"),
		DefaultClientProvided: envOr("DEFAULT_CLIENT_PROVIDED", "No"),
		DefaultRelationship:   envOr("DEFAULT_RELATIONSHIP_TYPE", "Relative"),

		RelayBaseURL:        os.Getenv("RELAY_BASE_URL"),
		RelayTimeout:        time.Duration(envInt("RELAY_TIMEOUT_SECONDS", 30)) * time.Second,
		RelayEmailsPath:     envOr("RELAY_EMAILS_PATH", "/webhook/bulk-emails"),
		RelayPhonesPath:     envOr("RELAY_PHONES_PATH", "/webhook/bulk-phones"),
		RelayUsernamesPath:  envOr("RELAY_USERNAMES_PATH", "/webhook/bulk-usernames"),
		RelayAddressesPath:  envOr("RELAY_ADDRESSES_PATH", "/webhook/bulk-addresses"),
		RelayFacialURLsPath: envOr("RELAY_FACIAL_URLS_PATH", "/webhook/facial-recognition-urls"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
