package config

import (
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/you/aarogyam/internal/config"
)

// Values the end-to-end suite relies on
const (
	BootstrapToken = "e2e-bootstrap-token"
	JWTSecret      = "e2e-secret-not-for-production"
)

// LoadTestConfig loads configuration specifically for E2E testing. An
// optional .env.test may point DATABASE_DSN at a real Postgres; otherwise
// each server gets a private in-memory SQLite database.
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	if err := godotenv.Load(".env.test"); err != nil && !os.IsNotExist(err) {
		t.Logf("Warning: Could not load .env.test file: %v", err)
	}

	cfg, err := config.LoadFrom(os.Getenv("TEST_CONFIG_PATH"))
	require.NoError(t, err, "Failed to load test configuration")

	cfg.Env = config.EnvDevelopment
	cfg.GinMode = "test"
	cfg.DSN = os.Getenv("TEST_DATABASE_DSN")
	if cfg.DSN == "" {
		cfg.DSN = "sqlite::memory:"
	}
	cfg.JWTSecret = JWTSecret
	cfg.TokenTTL = time.Hour
	cfg.BootstrapToken = BootstrapToken
	cfg.CountryCode = "+91"
	cfg.BcryptCost = 4
	cfg.OTP_TTL = 10 * time.Minute
	cfg.OTP_Length = 6
	cfg.OTP_ResendWindow = 30 * time.Second
	cfg.RequestTimeout = 5 * time.Second

	// never talk to real providers from tests
	cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.TwilioVerifySID = "", "", "", ""
	cfg.SendGridKey = ""
	cfg.S3Bucket = ""

	require.NoError(t, cfg.Validate())
	return cfg
}
