package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Both secrets are required: a missing signing or
// code secret is a startup-time failure, never a per-request one.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign access tokens
	CodeSecret    string // server key for confirmation-code derivation
	AccessTTLMin  int    // access token time-to-live in minutes
	CodeWindowMin int    // width of one confirmation-code time bucket in minutes
	CodeSkew      int    // past buckets still accepted during verification
	MailFrom      string // sender address used on confirmation-code mail
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		CodeSecret:    must("CODE_SECRET"),
		AccessTTLMin:  intOr("ACCESS_TOKEN_TTL_MIN", 60),
		CodeWindowMin: intOr("CODE_WINDOW_MIN", 15),
		CodeSkew:      intOr("CODE_SKEW", 1),
		MailFrom:      stringOr("MAIL_FROM", "noreply@media-review.local"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// stringOr returns the variable's value or a default when unset.
func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intOr returns the variable parsed as int or a default when unset.
// A present but unparsable value is a fatal configuration error.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
