package config

import (
	"os"
	"strconv"
)

// Development reports whether DEVELOPMENT is set to anything but a false
// value ("0", "false").
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	if b, err := strconv.ParseBool(development); err == nil {
		return b
	}
	return development != ""
}
