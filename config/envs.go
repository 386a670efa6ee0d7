package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP            string // Host IP for the server
	RESTPort          int    // Port for the REST API
	GinMode           string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret         string // Secret key for session token signing
	JWTIssuer         string // Issuer claim for session tokens
	TokenTTLSeconds   int    // Lifetime of a session token (in seconds)
	MazeWidth         int    // Width of generated mazes, odd and at least 3
	MazeHeight        int    // Height of generated mazes, odd and at least 3
	SessionTTLSeconds int    // Idle time after which a game session is evicted (in seconds)
	SweepIntervalSecs int    // How often idle sessions are swept (in seconds)
	LogLevel          string // Minimum log level (debug, info, warn, error)
	LogFile           string // Optional path of the rotated JSON log file
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	// Populate the Config struct with required environment variables
	return Config{
		HostIP:            getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:          getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:           getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		JWTIssuer:         getEnvWithDefault("JWT_ISSUER", "vinom-solo"),
		TokenTTLSeconds:   getEnvAsIntWithDefault("TOKEN_TTL_SECONDS", 24*60*60),
		MazeWidth:         getEnvAsIntWithDefault("MAZE_WIDTH", 13),
		MazeHeight:        getEnvAsIntWithDefault("MAZE_HEIGHT", 9),
		SessionTTLSeconds: getEnvAsIntWithDefault("SESSION_TTL_SECONDS", 30*60),
		SweepIntervalSecs: getEnvAsIntWithDefault("SWEEP_INTERVAL_SECONDS", 60),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogFile:           getEnvWithDefault("LOG_FILE", ""),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s is not set", ColorGreen, ColorReset, ColorRed, ColorReset, key)
	}
	return value
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer,
// returns a default value if not set, or logs a fatal error if it cannot be parsed.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
