package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Success with defaults only",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"APP_ENV":              "production",
				"SERVER_HOST":          "localhost",
				"PORT":                 "9090",
				"DATABASE_URL":         "postgres://u:p@db.example.com:5433/shoes?sslmode=disable",
				"DB_MAX_CONNECTIONS":   "50",
				"DB_MIN_CONNECTIONS":   "10",
				"DB_MAX_CONN_LIFETIME": "600",
				"DB_AUTO_MIGRATE":      "true",
				"LOG_LEVEL":            "debug",
				"LOG_FORMAT":           "console",
				"JWT_SECRET":           "a-real-secret",
				"JWT_TTL":              "24h",
				"OTP_STORE":            "memory",
				"OTP_TTL":              "10m",
				"OTP_RESEND_COOLDOWN":  "1m",
				"SMS_PROVIDER":         "smslocal",
				"SMS_LOCAL_API_KEY":    "sms-key",
				"S3_ENABLED":           "true",
				"S3_BUCKET":            "shoes-catalog",
				"SHIPPING_FEE":         "250",
				"TAX_RATE":             "0.05",
				"CURRENCY":             "USD",
			},
			expectError: false,
		},
		{
			name: "Error - fallback JWT secret in production",
			envVars: map[string]string{
				"APP_ENV": "production",
			},
			expectError: true,
			errorMsg:    "JWT_SECRET must be set",
		},
		{
			name: "Error - invalid server port",
			envVars: map[string]string{
				"PORT": "99999",
			},
			expectError: true,
			errorMsg:    "invalid server port",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "invalid",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - smslocal without key",
			envVars: map[string]string{
				"SMS_PROVIDER": "smslocal",
			},
			expectError: true,
			errorMsg:    "SMS Local API key is required",
		},
		{
			name: "Error - invalid tax rate",
			envVars: map[string]string{
				"TAX_RATE": "eighteen",
			},
			expectError: true,
			errorMsg:    "invalid tax rate",
		},
		{
			name: "Error - S3 enabled without bucket",
			envVars: map[string]string{
				"S3_ENABLED": "true",
			},
			expectError: true,
			errorMsg:    "S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear environment
			os.Clearenv()

			// Set test environment variables
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}

			// Clean up
			os.Clearenv()
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, FallbackDatabaseURL, cfg.Database.URL)
	assert.True(t, cfg.UsingFallbackJWTSecret())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, 30*time.Second, cfg.OTP.ResendCooldown)
	assert.Equal(t, "postgres", cfg.OTP.Store)
	assert.Equal(t, "log", cfg.SMS.Provider)
	assert.Equal(t, int64(500), cfg.Checkout.ShippingFee)
	assert.True(t, cfg.Checkout.TaxRate.Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, "inr", cfg.Checkout.Currency)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 100000, cfg.Session.MaxSessions)
	assert.Empty(t, cfg.Payment.StripeSecretKey)
	assert.Empty(t, cfg.Catalog.File)
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Clearenv()
	defer os.Clearenv()

	os.Setenv("PORT", "8081")
	os.Setenv("JWT_SECRET", "override-secret")
	os.Setenv("OTP_TTL", "2m")
	os.Setenv("CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "override-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.UsingFallbackJWTSecret())
	assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, "usd", cfg.Checkout.Currency)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 5000,
		},
		Database: DatabaseConfig{
			URL:            FallbackDatabaseURL,
			MaxConnections: 25,
			MinConnections: 5,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: 10,
		},
		OTP: OTPConfig{
			Store:          "memory",
			TTL:            5 * time.Minute,
			ResendCooldown: 30 * time.Second,
		},
		SMS: SMSConfig{
			Provider: "log",
		},
		Checkout: CheckoutConfig{
			ShippingFee: 500,
			TaxRate:     decimal.RequireFromString("0.18"),
			Currency:    "inr",
		},
		Session: SessionConfig{
			IdleTimeout: time.Hour,
			MaxSessions: 1000,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{name: "Valid configuration", mutate: func(c *Config) {}},
		{name: "Invalid - server port too high", mutate: func(c *Config) { c.Server.Port = 99999 }, errorMsg: "invalid server port"},
		{name: "Invalid - empty database URL", mutate: func(c *Config) { c.Database.URL = "" }, errorMsg: "database URL is required"},
		{name: "Invalid - min connections exceeds max", mutate: func(c *Config) { c.Database.MinConnections = 50 }, errorMsg: "min connections cannot exceed max connections"},
		{name: "Invalid - empty JWT secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, errorMsg: "JWT secret is required"},
		{name: "Invalid - bcrypt cost", mutate: func(c *Config) { c.Auth.BcryptCost = 40 }, errorMsg: "bcrypt cost"},
		{name: "Invalid - session max", mutate: func(c *Config) { c.Session.MaxSessions = 0 }, errorMsg: "session max must be at least 1"},
		{name: "Invalid - OTP store", mutate: func(c *Config) { c.OTP.Store = "redis" }, errorMsg: "invalid OTP store"},
		{name: "Invalid - OTP TTL", mutate: func(c *Config) { c.OTP.TTL = 0 }, errorMsg: "OTP TTL must be positive"},
		{name: "Invalid - negative cooldown", mutate: func(c *Config) { c.OTP.ResendCooldown = -time.Second }, errorMsg: "cannot be negative"},
		{name: "Invalid - SMS provider", mutate: func(c *Config) { c.SMS.Provider = "carrier-pigeon" }, errorMsg: "invalid SMS provider"},
		{name: "Invalid - negative shipping", mutate: func(c *Config) { c.Checkout.ShippingFee = -1 }, errorMsg: "shipping fee cannot be negative"},
		{name: "Invalid - negative tax", mutate: func(c *Config) { c.Checkout.TaxRate = decimal.NewFromInt(-1) }, errorMsg: "tax rate cannot be negative"},
		{name: "Invalid - empty currency", mutate: func(c *Config) { c.Checkout.Currency = "" }, errorMsg: "currency is required"},
		{
			name: "Invalid - fallback secret in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.Auth.JWTSecret = FallbackJWTSecret
			},
			errorMsg: "JWT_SECRET must be set",
		},
		{
			name: "Valid - fallback secret outside production",
			mutate: func(c *Config) {
				c.Env = "development"
				c.Auth.JWTSecret = FallbackJWTSecret
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	tests := []struct {
		name     string
		config   ServerConfig
		expected string
	}{
		{
			name: "Standard configuration",
			config: ServerConfig{
				Host: "localhost",
				Port: 8080,
			},
			expected: "localhost:8080",
		},
		{
			name: "All interfaces",
			config: ServerConfig{
				Host: "0.0.0.0",
				Port: 5000,
			},
			expected: "0.0.0.0:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.Address())
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LoggerConfig{Level: "debug", Format: "json"})
	assert.NotNil(t, logger)

	logger = NewLogger(LoggerConfig{Level: "bogus", Format: "console"})
	assert.NotNil(t, logger)
}
