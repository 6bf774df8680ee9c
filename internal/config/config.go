package config

import (
	"os"

	"github.com/spf13/cast"
)

// Config holds every runtime setting the API reads from the environment.
// main loads .env first (godotenv), so locally these can live in a file.
type Config struct {
	Addr       string
	DSN        string
	JWTSecret  string
	CORSOrigin string

	// TaxRate is the multiplier applied to the subtotal at checkout,
	// e.g. 0.15 for 15%. Defaults to 0 when unset.
	TaxRate float64

	PayPal PayPalConfig
}

// PayPalConfig carries the credentials for the payment verification client.
type PayPalConfig struct {
	ClientID string
	Secret   string
	APIBase  string // e.g. https://api-m.sandbox.paypal.com
}

// Load reads the configuration from environment variables, applying
// development defaults where that is safe to do.
func Load() Config {
	return Config{
		Addr:       getEnv("ADDR", ":8080"),
		DSN:        os.Getenv("DB_DSN"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
		TaxRate:    cast.ToFloat64(os.Getenv("TAX_RATE")),
		PayPal: PayPalConfig{
			ClientID: os.Getenv("PAYPAL_CLIENT_ID"),
			Secret:   os.Getenv("PAYPAL_SECRET"),
			APIBase:  getEnv("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
