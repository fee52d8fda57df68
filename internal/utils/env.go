package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SafeEnv returns the environment variable value for key, or fallback if empty.
func SafeEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// EnvDuration parses key as a Go duration; unset or malformed values yield fallback.
func EnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(SafeEnv(key, "")); err == nil {
		return d
	}
	return fallback
}

// EnvBool parses key with strconv.ParseBool, falling back when unset or malformed.
func EnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(SafeEnv(key, "")); err == nil {
		return b
	}
	return fallback
}
