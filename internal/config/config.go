package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Registry  RegistryConfig
	Quotation QuotationConfig
	Company   CompanyConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	Debug     bool
	LogFormat string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	// Path is the SQLite file used when Driver is "sqlite".
	Path string
}

type JWTConfig struct {
	Secret       string
	ExpiryHours  time.Duration
	CookieName   string
	CookieSecure bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// RegistryConfig points at the tax registry (SUNAT) lookup provider.
type RegistryConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type QuotationConfig struct {
	ValidityDays   int
	TaxRate        float64
	NumberPrefix   string
	DefaultTerms   string
	IdempotencyTTL time.Duration
}

// CompanyConfig is printed on quotation documents and used for WhatsApp links.
type CompanyConfig struct {
	Name          string
	TaxID         string
	Address       string
	Phone         string
	Email         string
	WhatsAppPhone string
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	setDefaults()

	return &Config{
		App: AppConfig{
			Name:      viper.GetString("APP_NAME"),
			Env:       viper.GetString("APP_ENV"),
			Port:      viper.GetString("APP_PORT"),
			Debug:     viper.GetBool("APP_DEBUG"),
			LogFormat: viper.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:   viper.GetString("DB_DRIVER"),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Path:     viper.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			ExpiryHours:  time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			CookieName:   viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: viper.GetBool("SESSION_COOKIE_SECURE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			CacheTTL: time.Duration(viper.GetInt("CATALOG_CACHE_TTL_SECONDS")) * time.Second,
		},
		Registry: RegistryConfig{
			BaseURL: viper.GetString("REGISTRY_BASE_URL"),
			Token:   viper.GetString("REGISTRY_TOKEN"),
			Timeout: time.Duration(viper.GetInt("REGISTRY_TIMEOUT_SECONDS")) * time.Second,
		},
		Quotation: QuotationConfig{
			ValidityDays:   viper.GetInt("QUOTATION_VALIDITY_DAYS"),
			TaxRate:        viper.GetFloat64("QUOTATION_TAX_RATE"),
			NumberPrefix:   viper.GetString("QUOTATION_NUMBER_PREFIX"),
			DefaultTerms:   viper.GetString("QUOTATION_DEFAULT_TERMS"),
			IdempotencyTTL: time.Duration(viper.GetInt("IDEMPOTENCY_TTL_HOURS")) * time.Hour,
		},
		Company: CompanyConfig{
			Name:          viper.GetString("COMPANY_NAME"),
			TaxID:         viper.GetString("COMPANY_TAX_ID"),
			Address:       viper.GetString("COMPANY_ADDRESS"),
			Phone:         viper.GetString("COMPANY_PHONE"),
			Email:         viper.GetString("COMPANY_EMAIL"),
			WhatsAppPhone: viper.GetString("WHATSAPP_PHONE"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
			Name:     viper.GetString("ADMIN_NAME"),
		},
	}
}

func setDefaults() {
	viper.SetDefault("APP_NAME", "catalog-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "catalog")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "America/Lima")
	viper.SetDefault("DB_PATH", "catalog.db")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 12)
	viper.SetDefault("SESSION_COOKIE_NAME", "session")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CATALOG_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("REGISTRY_BASE_URL", "https://api.apis.net.pe/v2/sunat")
	viper.SetDefault("REGISTRY_TIMEOUT_SECONDS", 8)
	viper.SetDefault("QUOTATION_VALIDITY_DAYS", 15)
	viper.SetDefault("QUOTATION_TAX_RATE", 18)
	viper.SetDefault("QUOTATION_NUMBER_PREFIX", "COT")
	viper.SetDefault("QUOTATION_DEFAULT_TERMS", "Precios incluyen IGV salvo indicación contraria. Validez sujeta a stock.")
	viper.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
	viper.SetDefault("COMPANY_NAME", "Andes Industrial S.A.C.")
	viper.SetDefault("WHATSAPP_PHONE", "51999999999")
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
