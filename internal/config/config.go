package config

import "os"

// Config holds runtime settings read from the environment. A .env file is
// loaded by main before this is called, so local development only needs the
// file while deployments use real environment variables.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	// Instamojo payment gateway credentials.
	InstamojoAPIKey    string
	InstamojoAuthToken string
	InstamojoSalt      string
	InstamojoBaseURL   string
}

func Load() Config {
	return Config{
		Addr:        getenv("VENDORMITRA_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret"),

		InstamojoAPIKey:    os.Getenv("INSTAMOJO_API_KEY"),
		InstamojoAuthToken: os.Getenv("INSTAMOJO_AUTH_TOKEN"),
		InstamojoSalt:      os.Getenv("INSTAMOJO_SALT"),
		InstamojoBaseURL:   getenv("INSTAMOJO_BASE_URL", "https://test.instamojo.com/api/1.1/"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
