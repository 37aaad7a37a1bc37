package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	AWS       AWSConfig
	Google    GoogleConfig
	RateLimit RateLimitConfig
	Avatar    AvatarConfig
	Query     QueryConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Env     string
	Debug   bool
	LogPath string
	BaseURL string

	AllowedOrigin string
}

// IsDevelopment reports whether unexpected errors may be rendered with detail.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type JWTConfig struct {
	Secret           string
	ExpiryHours      int
	CookieExpiryDays int
	ResetExpires     time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
}

type GoogleConfig struct {
	ClientID     string
	TokenInfoURL string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type AvatarConfig struct {
	Size        int
	Quality     int
	MaxUploadMB int64
}

type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "appmarket")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BASE_URL", "http://localhost:3000")
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24*90)
	viper.SetDefault("JWT_COOKIE_EXPIRY_DAYS", 90)
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("GOOGLE_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", time.Hour)
	viper.SetDefault("AVATAR_SIZE", 500)
	viper.SetDefault("AVATAR_QUALITY", 90)
	viper.SetDefault("AVATAR_MAX_UPLOAD_MB", 5)
	viper.SetDefault("PASSWORD_RESET_EXPIRES", 10*time.Minute)
	viper.SetDefault("QUERY_DEFAULT_LIMIT", 100)
	viper.SetDefault("QUERY_MAX_LIMIT", 100)

	// .env is optional, the environment always wins
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Env:     viper.GetString("APP_ENV"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			BaseURL: viper.GetString("BASE_URL"),

			AllowedOrigin: viper.GetString("CORS_ORIGIN"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:           viper.GetString("JWT_SECRET"),
			ExpiryHours:      viper.GetInt("JWT_EXPIRY_HOURS"),
			CookieExpiryDays: viper.GetInt("JWT_COOKIE_EXPIRY_DAYS"),
			ResetExpires:     viper.GetDuration("PASSWORD_RESET_EXPIRES"),
		},
		AWS: AWSConfig{
			Region:          viper.GetString("AWS_REGION"),
			AccessKeyID:     viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("AWS_SECRET_ACCESS_KEY"),
			Bucket:          viper.GetString("AWS_BUCKET_NAME"),
			Endpoint:        viper.GetString("AWS_ENDPOINT"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			TokenInfoURL: viper.GetString("GOOGLE_TOKENINFO_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Avatar: AvatarConfig{
			Size:        viper.GetInt("AVATAR_SIZE"),
			Quality:     viper.GetInt("AVATAR_QUALITY"),
			MaxUploadMB: viper.GetInt64("AVATAR_MAX_UPLOAD_MB"),
		},
		Query: QueryConfig{
			DefaultLimit: viper.GetInt("QUERY_DEFAULT_LIMIT"),
			MaxLimit:     viper.GetInt("QUERY_MAX_LIMIT"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
