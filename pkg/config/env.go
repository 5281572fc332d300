package config

import (
	"os"
	"strconv"
	"time"
)

// GetEnv returns the value of an environment variable or a default value if not set
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value if not set
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetIntEnv returns the integer value of an environment variable or a default value if not set
func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDurationEnv returns the duration value of an environment variable or a default value if not set
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// MustGetEnv returns the value of an environment variable or panics if not set
func MustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	panic("Required environment variable " + key + " is not set")
}

// GetJWTSecret returns the secret used to sign and validate API JWTs
func GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-secret-change-me")
}

// GetGitHubClientID returns the GitHub OAuth application client ID
func GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

// GetGitHubClientSecret returns the GitHub OAuth application client secret
func GetGitHubClientSecret() string {
	return GetEnv("GITHUB_CLIENT_SECRET", "")
}

// GetGitHubRedirectURI returns the OAuth callback URL registered with GitHub
func GetGitHubRedirectURI() string {
	return GetEnv("GITHUB_REDIRECT_URI", "http://localhost:8080/api/auth/github/callback")
}

// GetAPIPrefix returns the path prefix all API routes are mounted under
func GetAPIPrefix() string {
	return GetEnv("API_PREFIX", "/api")
}

// GetHost returns the listen address for the HTTP server
func GetHost() string {
	return GetEnv("HOST", "0.0.0.0")
}

// GetPort returns the listen port for the HTTP server
func GetPort() string {
	return GetEnv("PORT", "8080")
}
