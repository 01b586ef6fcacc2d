package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env   string
	Port  string
	DBURL string

	// Each token class signs with its own secret.
	AccessTokenSecret  string
	RefreshTokenSecret string
	ActionTokenSecret  string

	AccessExpiryMin  int
	RefreshExpiryMin int
	ActionExpiryMin  int

	// ClientOrigin is the base URL embedded in verification and recovery
	// links.
	ClientOrigin string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// RevokeSessionsOnPasswordReset bumps the user's token version after a
	// recovery-initiated password reset, logging out every device. Off by
	// default: a reset preserves existing sessions.
	RevokeSessionsOnPasswordReset bool
}

func Load() *Config {
	return &Config{
		Env:                           getEnv("ENV", "development"),
		Port:                          getEnv("PORT", "8080"),
		DBURL:                         mustGetEnv("DB_URL"),
		AccessTokenSecret:             mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:            mustGetEnv("REFRESH_TOKEN_SECRET"),
		ActionTokenSecret:             mustGetEnv("ACTION_TOKEN_SECRET"),
		AccessExpiryMin:               getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:              getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		ActionExpiryMin:               getEnvAsInt("ACTION_TOKEN_EXPIRY", 60),
		ClientOrigin:                  mustGetEnv("CLIENT_ORIGIN"),
		SMTPHost:                      getEnv("SMTP_HOST", ""),
		SMTPPort:                      getEnv("SMTP_PORT", "465"),
		SMTPUsername:                  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                  getEnv("SMTP_PASSWORD", ""),
		MailFrom:                      getEnv("MAIL_FROM", "Square <info@projectsquare.online>"),
		RevokeSessionsOnPasswordReset: getEnvAsBool("REVOKE_SESSIONS_ON_PASSWORD_RESET", false),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	log.Fatalf("Missing required environment variable: %s", key)

	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}

	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}

	return val
}
