// Package config loads application configuration from environment
// variables.  A .env file in the working directory is read first when
// present; variables already set in the environment win.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all runtime configuration values.
type Config struct {
	Env     string // application environment (dev, test, prod)
	Port    string // HTTP port to listen on
	Store   string // persistence backend: mysql or memory
	DB      DBConfig
	AMQPURL string // RabbitMQ URL; empty disables event publishing
	Booking BookingConfig
}

// DBConfig holds the MySQL connection settings.
type DBConfig struct {
	User string
	Pass string // optional
	Host string
	Port string
	Name string
}

// DSN renders the go-sql-driver/mysql data source name.  parseTime maps
// DATE and DATETIME columns to time.Time, loc=UTC keeps them in UTC and
// clientFoundRows makes UPDATE report matched rather than changed rows.
func (c DBConfig) DSN() string {
	auth := c.User
	if c.Pass != "" {
		auth = fmt.Sprintf("%s:%s", c.User, c.Pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, c.Host, c.Port, c.Name)
}

// LoadDotEnv reads .env if it exists.  A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

// Load reads configuration values from the environment.  Required
// variables are enforced by must() and missing values terminate the
// process.  The DB_* variables are only required for the mysql store.
func Load() Config {
	LoadDotEnv()
	cfg := Config{
		Env:     envStr("APP_ENV", "dev"),
		Port:    envStr("APP_PORT", "8080"),
		Store:   envStr("APP_STORE", StoreMySQL),
		AMQPURL: os.Getenv("AMQP_URL"),
		Booking: LoadBookingConfig(),
	}
	if cfg.Store == StoreMySQL {
		cfg.DB = LoadDBConfig()
	}
	return cfg
}

// LoadDBConfig reads the DB_* variables.
func LoadDBConfig() DBConfig {
	return DBConfig{
		User: must("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: must("DB_HOST"),
		Port: strconv.Itoa(mustInt("DB_PORT")),
		Name: must("DB_NAME"),
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

// mustInt is like must() but also requires the value to be an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
