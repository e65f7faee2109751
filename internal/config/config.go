package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort            = "8000"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = time.Minute
	defaultShutdownTimeout = 10 * time.Second
	defaultDatabase        = "navigateBd"
	defaultAccessTTL       = time.Hour
)

type AppConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type Config struct {
	AppConfig   *AppConfig
	MongoConfig *MongoConfig
	JWTConfig   *JWTConfig
	CORSConfig  *CORSConfig
}

func Load() (*Config, error) {
	/** app config */
	appConfig := &AppConfig{
		Port:            getEnv("PORT", defaultPort),
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		IdleTimeout:     defaultIdleTimeout,
		ShutdownTimeout: defaultShutdownTimeout,
	}
	var err error
	if appConfig.ReadTimeout, err = getDuration("APP_READ_TIMEOUT", defaultReadTimeout); err != nil {
		return nil, err
	}
	if appConfig.WriteTimeout, err = getDuration("APP_WRITE_TIMEOUT", defaultWriteTimeout); err != nil {
		return nil, err
	}
	if appConfig.IdleTimeout, err = getDuration("APP_IDLE_TIMEOUT", defaultIdleTimeout); err != nil {
		return nil, err
	}
	if appConfig.ShutdownTimeout, err = getDuration("APP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}

	/** mongo config */
	mongoConfig := &MongoConfig{
		URI:      os.Getenv("MONGODB_URI"),
		Database: getEnv("MONGODB_DATABASE", defaultDatabase),
	}
	if mongoConfig.URI == "" {
		return nil, fmt.Errorf("MONGODB_URI must be set")
	}

	/** jwt config */
	jwtConfig := &JWTConfig{
		Secret: os.Getenv("ACCESS_TOKEN_SECRET"),
	}
	if jwtConfig.Secret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET must be set")
	}
	if jwtConfig.AccessTTL, err = getDuration("ACCESS_TTL", defaultAccessTTL); err != nil {
		return nil, err
	}

	/** cors config */
	corsConfig := &CORSConfig{
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	return &Config{
		AppConfig:   appConfig,
		MongoConfig: mongoConfig,
		JWTConfig:   jwtConfig,
		CORSConfig:  corsConfig,
	}, nil
}

// Address returns the listen address for the HTTP server.
func (a *AppConfig) Address() string {
	if strings.HasPrefix(a.Port, ":") {
		return a.Port
	}
	return ":" + a.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
