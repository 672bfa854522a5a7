// Package env reads the few settings needed before config.Load runs.
package env

import (
	"os"
	"strings"
)

// First returns the first non-blank value among keys, or fallback.
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

// Get returns the value of key, preferring its CIVIC_ prefixed form.
func Get(key, fallback string) string {
	return First(fallback, "CIVIC_"+key, key)
}
