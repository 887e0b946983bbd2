package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config representa la configuración del servicio
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Events   EventsConfig
	Logging  LoggingConfig
	Pricing  PricingConfig
}

// ServerConfig representa la configuración del servidor HTTP
type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// DatabaseConfig representa la configuración de la base de datos.
// Si URL está definida tiene prioridad sobre los campos individuales.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	QueryTimeout time.Duration
}

// RedisConfig representa la configuración de Redis
type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Password   string
	DB         int
	ProductTTL time.Duration
}

// EventsConfig representa la configuración de RabbitMQ. URL vacía desactiva la publicación.
type EventsConfig struct {
	URL      string
	Exchange string
}

// LoggingConfig representa la configuración de logging
type LoggingConfig struct {
	Level  string
	Format string
}

// PricingConfig representa los parámetros de cálculo de precios
type PricingConfig struct {
	FlatTaxRate      decimal.Decimal
	FixtureUnitPrice decimal.Decimal
	FixtureCurrency  string
}

// Load carga la configuración desde variables de entorno
func Load() (*Config, error) {
	// Cargar archivo .env si existe
	_ = godotenv.Load()

	taxRate, err := getEnvAsDecimal("PRICING_FLAT_TAX_RATE", "0.2")
	if err != nil {
		return nil, err
	}
	fixturePrice, err := getEnvAsDecimal("FIXTURE_UNIT_PRICE", "20.00")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("PGHOST", "localhost"),
			Port:         getEnv("PGPORT", "5432"),
			User:         getEnv("PGUSER", "postgres"),
			Password:     getEnv("PGPASSWORD", "postgres"),
			Name:         getEnv("PGDATABASE", "catalog"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Enabled:    getEnvAsBool("REDIS_ENABLED", false),
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			ProductTTL: getEnvAsDuration("REDIS_PRODUCT_TTL", time.Minute),
		},
		Events: EventsConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("EVENTS_EXCHANGE", "catalog.events"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Pricing: PricingConfig{
			FlatTaxRate:      taxRate,
			FixtureUnitPrice: fixturePrice,
			FixtureCurrency:  getEnv("FIXTURE_CURRENCY", "USD"),
		},
	}

	return config, nil
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt obtiene una variable de entorno como entero
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool obtiene una variable de entorno como booleano
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration obtiene una variable de entorno como duración
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsDecimal obtiene una variable de entorno como decimal. A diferencia
// de los otros helpers, un valor inválido es un error de configuración.
func getEnvAsDecimal(key, defaultValue string) (decimal.Decimal, error) {
	value := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// IsDevelopment retorna true si el entorno es de desarrollo
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetDSN retorna la cadena de conexión a la base de datos
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return "host=" + c.Database.Host +
		" port=" + c.Database.Port +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" sslmode=" + c.Database.SSLMode
}

// GetRedisAddr retorna la dirección de Redis
func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
