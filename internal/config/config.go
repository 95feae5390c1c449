package config // package config loads application configuration from environment variables

import (
    "log"  // log is used to report configuration errors and halt execution
    "os"   // os provides access to environment variables
    "time" // time expresses the hold TTL as a duration
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The database fields are optional: when DB_HOST
// is empty the audit trail is disabled and the service runs purely in memory.
type Config struct {
    Env       string        // application environment (e.g. "dev", "prod")
    Port      string        // HTTP port to listen on
    SeatCount int           // number of seats created at startup
    HoldTTL   time.Duration // lifetime of every seat lock
    DBUser    string        // database username (optional)
    DBPass    string        // database password (optional)
    DBHost    string        // database host address (optional)
    DBPort    string        // database port number (optional)
    DBName    string        // database name (optional)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  SEAT_COUNT and
// HOLD_TTL fall back to the documented defaults of 10 seats and one minute.
func Load() Config {
    cfg := Config{
        Env:       must("APP_ENV"),                  // environment (dev/test/prod)
        Port:      must("APP_PORT"),                 // port to bind the HTTP server
        SeatCount: envInt("SEAT_COUNT", 10),         // size of the fixed seat pool
        HoldTTL:   envDur("HOLD_TTL", time.Minute),  // lock lifetime, e.g. "60s"
        DBUser:    os.Getenv("DB_USER"),             // database user (audit trail only)
        DBPass:    os.Getenv("DB_PASS"),             // database password (empty allowed)
        DBHost:    os.Getenv("DB_HOST"),             // database host; empty disables audit
        DBPort:    os.Getenv("DB_PORT"),             // database port
        DBName:    os.Getenv("DB_NAME"),             // database name
    }
    if cfg.SeatCount < 1 {
        log.Fatalf("SEAT_COUNT must be positive, got %d", cfg.SeatCount)
    }
    if cfg.HoldTTL <= 0 {
        log.Fatalf("HOLD_TTL must be positive, got %s", cfg.HoldTTL)
    }
    return cfg
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
