// Package config provides centralized default values for the site service
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env overrides without clobbering variables that are
// already present in the process environment.
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(); err != nil {
			log.Printf("Failed to load .env file: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

// getEnvSecret reads a value that must never be echoed to the log.
func getEnvSecret(key string) string {
	val := os.Getenv(key)
	if val != "" {
		log.Printf("Config override: %s=(set)", key)
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	log.Printf("Config override: %s=%s", key, strings.Join(out, ","))
	return out
}

var (
	// Server Configuration
	Port                string
	ServerReadTimeout   time.Duration
	ServerWriteTimeout  time.Duration
	ServerIdleTimeout   time.Duration
	ShutdownTimeout     time.Duration
	AllowedOrigins      []string
	ClientAddressHeader string
	MaxBodyBytes        int

	// Email Delivery
	EmailProvider        string
	FromEmail            string
	FromName             string
	ToEmail              string
	ResendAPIKey         string
	MailChannelsEndpoint string
	EmailTimeout         time.Duration

	// Spam and Rate Limiting
	RateLimitStore         string
	RateLimitWindow        time.Duration
	RateLimitMax           int
	RateLimitSweepInterval time.Duration
	RedisURL               string
	MinSubmitDelay         time.Duration

	// Gallery
	AssetsDir             string
	GalleryDir            string
	GalleryMaxImages      int
	GalleryRotateInterval time.Duration
	ThumbnailWidth        int
	ThumbnailQuality      int

	// Client Fallback Contact
	ContactPhone string
	ContactEmail string

	// Logging
	LogDirectory     string
	LogToFile        bool
	LogLevel         string
	LogChannelLevels []string
	LogJSON          bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:4321",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:4321",
		"http://[::1]:3000", // IPv6 localhost
		"http://[::1]:4321", // IPv6 localhost
	})
	ClientAddressHeader = getEnvString("CLIENT_ADDRESS_HEADER", "CF-Connecting-IP")
	MaxBodyBytes = getEnvInt("MAX_BODY_BYTES", 64*1024)

	// Email Delivery
	EmailProvider = getEnvString("EMAIL_PROVIDER", "logging")
	FromEmail = getEnvString("FROM_EMAIL", "")
	FromName = getEnvString("FROM_NAME", "Nasa Gas Plumbing & Heating")
	ToEmail = getEnvString("TO_EMAIL", "")
	ResendAPIKey = getEnvSecret("RESEND_API_KEY")
	MailChannelsEndpoint = getEnvString("MAILCHANNELS_ENDPOINT", "https://api.mailchannels.net/tx/v1/send")
	EmailTimeout = getEnvDuration("EMAIL_TIMEOUT", 10*time.Second)

	// Spam and Rate Limiting
	RateLimitStore = getEnvString("RATE_LIMIT_STORE", "memory")
	RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)
	RateLimitMax = getEnvInt("RATE_LIMIT_MAX", 5)
	RateLimitSweepInterval = getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute)
	RedisURL = getEnvString("REDIS_URL", "redis://localhost:6379/0")
	MinSubmitDelay = getEnvDuration("MIN_SUBMIT_DELAY", 1500*time.Millisecond)

	// Gallery
	AssetsDir = getEnvString("ASSETS_DIR", "assets")
	GalleryDir = getEnvString("GALLERY_DIR", "assets/images")
	GalleryMaxImages = getEnvInt("GALLERY_MAX_IMAGES", 40)
	GalleryRotateInterval = getEnvDuration("GALLERY_ROTATE_INTERVAL", 5*time.Second)
	ThumbnailWidth = getEnvInt("THUMBNAIL_WIDTH", 300)
	ThumbnailQuality = getEnvInt("THUMBNAIL_QUALITY", 80)

	// Client Fallback Contact
	ContactPhone = getEnvString("CONTACT_PHONE", "07790 714880")
	ContactEmail = getEnvString("CONTACT_EMAIL", "shkelzen_naza@hotmail.co.uk")

	// Logging
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogChannelLevels = getEnvList("LOG_CHANNEL_LEVELS", nil)
	LogJSON = getEnvBool("LOG_JSON", true)
}
