package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is the documented placeholder secret. It is accepted
// outside production only.
const DefaultJWTSecret = "aarogyam_secret_key"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var ErrInsecureJWTSecret = errors.New("production profile requires JWT_SECRET to be set to a non-default value")

type AppConfig struct {
	Env            string `yaml:"env"`
	Port           int    `yaml:"port"`
	GinMode        string `yaml:"gin_mode"`
	RequestTimeout string `yaml:"request_timeout"`
	BootstrapToken string `yaml:"bootstrap_token"`
	CountryCode    string `yaml:"default_country_code"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
	TTL    string `yaml:"ttl"`
}

type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	ResendWindow string `yaml:"resend_window"`
}

type TwilioConfig struct {
	AccountSID       string `yaml:"account_sid"`
	AuthToken        string `yaml:"auth_token"`
	FromNumber       string `yaml:"from_number"`
	VerifyServiceSID string `yaml:"verify_service_sid"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type S3Config struct {
	Region     string `yaml:"region"`
	Bucket     string `yaml:"bucket"`
	PresignTTL string `yaml:"presign_ttl"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Password PasswordConfig `yaml:"password"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	SendGrid SendGridConfig `yaml:"sendgrid"`
	S3       S3Config       `yaml:"s3"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Env              string
	Port             string
	GinMode          string
	RequestTimeout   time.Duration
	BootstrapToken   string
	CountryCode      string
	LogLevel         string
	LogFormat        string
	DSN              string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	JWTSecret        string
	JWTIssuer        string
	TokenTTL         time.Duration
	BcryptCost       int
	OTP_TTL          time.Duration
	OTP_Length       int
	OTP_ResendWindow time.Duration
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
	TwilioVerifySID  string
	SendGridKey      string
	SendGridFrom     string
	SendGridFromName string
	S3Region         string
	S3Bucket         string
	S3PresignTTL     time.Duration
	CasbinModelPath  string
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// UsesDefaultSecret reports whether the JWT secret is empty or the placeholder.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}

// TwilioVerifyConfigured reports whether external OTP verification is available.
func (c *Config) TwilioVerifyConfigured() bool {
	return c.TwilioSID != "" && c.TwilioToken != "" && c.TwilioVerifySID != ""
}

// Validate rejects configurations that must not serve traffic.
func (c *Config) Validate() error {
	if c.IsProduction() && c.UsesDefaultSecret() {
		return ErrInsecureJWTSecret
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("unknown app env %q", c.Env)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost)
	}
	if c.OTP_Length < 4 || c.OTP_Length > 10 {
		return fmt.Errorf("otp length %d out of range", c.OTP_Length)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("token ttl must not be negative")
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Load reads .env (if present), then the YAML file at CONFIG_PATH
// (default config/config.yml, optional), then applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(env("CONFIG_PATH", "config/config.yml"))
}

// LoadFrom builds the configuration from the given YAML path. A missing
// file is not an error; defaults and environment variables apply.
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	reqTimeout, err := time.ParseDuration(env("REQUEST_TIMEOUT", orDefault(configFile.App.RequestTimeout, "15s")))
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	tokenTTL, err := time.ParseDuration(env("JWT_TTL", orDefault(configFile.JWT.TTL, "0s")))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	otpTTL, err := time.ParseDuration(env("OTP_TTL", orDefault(configFile.OTP.TTL, "10m")))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(env("OTP_RESEND_WINDOW", orDefault(configFile.OTP.ResendWindow, "30s")))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	presignTTL, err := time.ParseDuration(env("S3_PRESIGN_TTL", orDefault(configFile.S3.PresignTTL, "15m")))
	if err != nil {
		return nil, fmt.Errorf("invalid S3 presign TTL: %w", err)
	}

	port := configFile.App.Port
	if port == 0 {
		port = 5000
	}

	return &Config{
		Env:              env("APP_ENV", orDefault(configFile.App.Env, EnvDevelopment)),
		Port:             env("PORT", strconv.Itoa(port)),
		GinMode:          env("GIN_MODE", orDefault(configFile.App.GinMode, "debug")),
		RequestTimeout:   reqTimeout,
		BootstrapToken:   env("ADMIN_BOOTSTRAP_TOKEN", configFile.App.BootstrapToken),
		CountryCode:      env("DEFAULT_COUNTRY_CODE", orDefault(configFile.App.CountryCode, "+91")),
		LogLevel:         env("LOG_LEVEL", orDefault(configFile.Log.Level, "info")),
		LogFormat:        env("LOG_FORMAT", orDefault(configFile.Log.Format, "json")),
		DSN:              env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:        env("REDIS_ADDR", orDefault(configFile.Redis.Addr, "localhost:6379")),
		RedisPassword:    env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:          envInt("REDIS_DB", configFile.Redis.DB),
		JWTSecret:        env("JWT_SECRET", orDefault(configFile.JWT.Secret, DefaultJWTSecret)),
		JWTIssuer:        env("JWT_ISSUER", orDefault(configFile.JWT.Issuer, "aarogyam")),
		TokenTTL:         tokenTTL,
		BcryptCost:       envInt("BCRYPT_COST", intOrDefault(configFile.Password.BcryptCost, 10)),
		OTP_TTL:          otpTTL,
		OTP_Length:       envInt("OTP_LENGTH", intOrDefault(configFile.OTP.Length, 6)),
		OTP_ResendWindow: resWnd,
		TwilioSID:        env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:       env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
		TwilioVerifySID:  env("TWILIO_SERVICE_SID", configFile.Twilio.VerifyServiceSID),
		SendGridKey:      env("SENDGRID_API_KEY", configFile.SendGrid.APIKey),
		SendGridFrom:     env("SENDGRID_FROM_EMAIL", configFile.SendGrid.FromEmail),
		SendGridFromName: env("SENDGRID_FROM_NAME", orDefault(configFile.SendGrid.FromName, "Aarogyam")),
		S3Region:         env("AWS_REGION", configFile.S3.Region),
		S3Bucket:         env("S3_BUCKET", configFile.S3.Bucket),
		S3PresignTTL:     presignTTL,
		CasbinModelPath:  env("CASBIN_MODEL_PATH", configFile.Casbin.ModelPath),
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	var config ConfigFile
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
