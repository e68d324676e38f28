package config // package config loads application configuration from environment variables

import (
    "errors"
    "fmt"
    "os"
    "strings"
    "time"
    _ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

    "github.com/joho/godotenv"
)

// Supported values for DBDriver.
const (
    DriverMySQL  = "mysql"
    DriverSQLite = "sqlite"
)

// Supported values for FlashStore.
const (
    FlashCookie = "cookie"
    FlashRedis  = "redis"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env        string // application environment (e.g. "dev", "prod")
    Port       string // HTTP port to listen on
    Timezone   string // IANA zone used when parsing and displaying show times
    DBDriver   string // "mysql" or "sqlite"
    DBUser     string // database username
    DBPass     string // database password (optional)
    DBHost     string // database host address
    DBPort     string // database port number
    DBName     string // database name
    SQLitePath string // database file when DBDriver is sqlite
    LogLevel   string // zerolog level name
    LogFormat  string // json or console
    FlashStore string // where flash notifications live between requests
    RabbitURL  string // AMQP broker for listing events; empty disables publishing
    Exchange   string // topic exchange listing events are published to
}

// Load reads configuration values from the environment and returns a Config.
// An optional dotenv file (ENV_FILE, default ".env") is read first; values
// already present in the environment take precedence over the file.
func Load() (Config, error) {
    if err := loadDotEnv(envStr("ENV_FILE", ".env")); err != nil {
        return Config{}, err
    }
    cfg := Config{
        Env:        envStr("APP_ENV", "dev"),
        Port:       envStr("APP_PORT", "5000"),
        Timezone:   envStr("APP_TIMEZONE", "UTC"),
        DBDriver:   strings.ToLower(envStr("DB_DRIVER", DriverMySQL)),
        DBUser:     os.Getenv("DB_USER"),
        DBPass:     os.Getenv("DB_PASS"), // empty allowed
        DBHost:     envStr("DB_HOST", "127.0.0.1"),
        DBPort:     envStr("DB_PORT", "3306"),
        DBName:     os.Getenv("DB_NAME"),
        SQLitePath: envStr("SQLITE_PATH", "venues.db"),
        LogLevel:   envStr("LOG_LEVEL", "info"),
        LogFormat:  envStr("LOG_FORMAT", "json"),
        FlashStore: strings.ToLower(envStr("FLASH_STORE", FlashCookie)),
        RabbitURL:  firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
        Exchange:   envStr("EVENTS_EXCHANGE", "listings"),
    }
    if err := cfg.validate(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// Location resolves Timezone.  validate() has already checked it loads.
func (c Config) Location() *time.Location {
    loc, err := time.LoadLocation(c.Timezone)
    if err != nil {
        return time.UTC
    }
    return loc
}

func (c Config) validate() error {
    switch c.DBDriver {
    case DriverMySQL:
        if c.DBUser == "" {
            return errors.New("missing required env var: DB_USER")
        }
        if c.DBName == "" {
            return errors.New("missing required env var: DB_NAME")
        }
    case DriverSQLite:
        if c.SQLitePath == "" {
            return errors.New("missing required env var: SQLITE_PATH")
        }
    default:
        return fmt.Errorf("invalid DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
    }
    switch c.FlashStore {
    case FlashCookie, FlashRedis:
    default:
        return fmt.Errorf("invalid FLASH_STORE %q (want cookie or redis)", c.FlashStore)
    }
    if _, err := time.LoadLocation(c.Timezone); err != nil {
        return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
    }
    return nil
}

// loadDotEnv applies the dotenv file at path.  A missing file is not an error.
func loadDotEnv(path string) error {
    if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
        return nil
    }
    if err := godotenv.Load(path); err != nil {
        return fmt.Errorf("load %s: %w", path, err)
    }
    return nil
}

func firstNonEmpty(vals ...string) string {
    for _, v := range vals {
        if v != "" {
            return v
        }
    }
    return ""
}
