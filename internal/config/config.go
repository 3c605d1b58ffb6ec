package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The signing secret and token lifetimes are
// passed into the components that need them at construction time; nothing
// reads this struct through ambient global state.
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host address
    DBPort        string // database port number
    DBName        string // database name
    JWTSecret     string // secret used to sign JWTs
    AccessTTLSec  int64  // access token time-to-live in seconds
    RefreshTTLSec int64  // refresh token time-to-live in seconds
    BcryptCost    int    // bcrypt cost for password hashing (0 = library default)
}

// Load reads configuration values from environment variables and returns a
// Config.  The database coordinates and the signing secret are required;
// token lifetimes and the bcrypt cost fall back to defaults matching a
// one-hour access token and a seven-day refresh token.
func Load() Config {
    return Config{
        Env:           getenv("APP_ENV", "dev"),
        Port:          getenv("APP_PORT", "8080"),
        DBUser:        must("DB_USER"),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBHost:        must("DB_HOST"),
        DBPort:        must("DB_PORT"),
        DBName:        must("DB_NAME"),
        JWTSecret:     must("JWT_SECRET"),
        AccessTTLSec:  envInt64("JWT_EXPIRES_IN", 3600),
        RefreshTTLSec: envInt64("JWT_REFRESH_EXPIRES_IN", 604800),
        BcryptCost:    int(envInt64("BCRYPT_COST", 0)),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// envInt64 reads an integer environment variable, exiting on malformed
// values and falling back to def when unset.
func envInt64(key string, def int64) int64 {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.ParseInt(s, 10, 64)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
