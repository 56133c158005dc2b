// Package env has the one environment helper that predates envconfig here.
package env

import "os"

// Get returns the value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
