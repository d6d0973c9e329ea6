package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	GinMode     string `yaml:"gin_mode"`
	Environment string `yaml:"environment"`
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
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	SessionTTL string `yaml:"session_ttl"`
}

type OTPConfig struct {
	Length        int    `yaml:"length"`
	TTL           string `yaml:"ttl"`
	SweepInterval string `yaml:"sweep_interval"`
}

type NotifierConfig struct {
	Channel         string `yaml:"channel"`
	DispatchTimeout string `yaml:"dispatch_timeout"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Notifier NotifierConfig `yaml:"notifier"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
}

type Config struct {
	Port        string
	GinMode     string
	Environment string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	OTPLength     int
	OTPTTL        time.Duration
	SweepInterval time.Duration

	NotifierChannel string
	DispatchTimeout time.Duration
	LockTTL         time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

// IsProduction selects the production cookie profile.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

// Load reads config/config.yml (overridable via AUTHKIT_CONFIG) and applies
// environment overrides for secrets.
func Load() (*Config, error) {
	path := env("AUTHKIT_CONFIG", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	sessionTTL, err := duration(configFile.JWT.SessionTTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	otpTTL, err := duration(configFile.OTP.TTL, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}

	sweepInterval, err := duration(configFile.OTP.SweepInterval, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	dispatchTimeout, err := duration(configFile.Notifier.DispatchTimeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid dispatch timeout: %w", err)
	}

	otpLength := configFile.OTP.Length
	if otpLength == 0 {
		otpLength = 6
	}

	return &Config{
		Port:        fmt.Sprintf("%d", configFile.App.Port),
		GinMode:     configFile.App.GinMode,
		Environment: env("APP_ENV", configFile.App.Environment),

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:  env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:  configFile.JWT.Issuer,
		SessionTTL: sessionTTL,

		OTPLength:     otpLength,
		OTPTTL:        otpTTL,
		SweepInterval: sweepInterval,

		NotifierChannel: configFile.Notifier.Channel,
		DispatchTimeout: dispatchTimeout,
		LockTTL:         10 * time.Second,

		SMTPHost:     env("SMTP_HOST", configFile.SMTP.Host),
		SMTPPort:     configFile.SMTP.Port,
		SMTPUsername: env("SMTP_USER", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASS", configFile.SMTP.Password),
		SMTPFrom:     env("SMTP_FROM", configFile.SMTP.From),

		TwilioSID:   env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", configFile.Twilio.FromNumber),
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
