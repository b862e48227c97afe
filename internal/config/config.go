package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Engine
	DebounceWindow  time.Duration
	DisplayCurrency string
	ActiveView      string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Exporter worker
	ExportDir  string
	APIBaseURL string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DebounceWindow:  getEnvDuration("DEBOUNCE_WINDOW", 150*time.Millisecond),
		DisplayCurrency: getEnv("DISPLAY_CURRENCY", "XAF"),
		ActiveView:      getEnv("ACTIVE_VIEW", "category"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wallettrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "wallettrack_events"),

		ExportDir:  getEnv("EXPORT_DIR", "./exports"),
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8081"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate debounce window
	if c.DebounceWindow < 0 {
		errors = append(errors, fmt.Sprintf("invalid debounce window %v: must not be negative", c.DebounceWindow))
	} else if c.DebounceWindow > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid debounce window %v: must be at most 1 minute", c.DebounceWindow))
	}

	// Validate active view
	validViews := []string{"category", "monthly", "daily"}
	isValidView := false
	for _, view := range validViews {
		if c.ActiveView == view {
			isValidView = true
			break
		}
	}
	if !isValidView {
		errors = append(errors, fmt.Sprintf("invalid active view '%s': must be one of %v", c.ActiveView, validViews))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
	}

	// Validate AMQP exchange and queue names if AMQP is configured
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate API base URL for the exporter worker
	if c.APIBaseURL != "" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
