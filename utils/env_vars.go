package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type envTypes interface {
	string | int | bool
}

// GetEnv reads an environment variable, falling back to defaultValue when it
// is unset or empty.
func GetEnv[T envTypes](envVar string, defaultValue T) T {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		return defaultValue
	}
	return parseEnvValue(envVar, envValue, defaultValue)
}

// GetRequiredEnv reads an environment variable and exits when it is missing.
func GetRequiredEnv[T envTypes](envVar string) T {
	envValue, ok := os.LookupEnv(envVar)
	if !ok || envValue == "" {
		log.Fatalf("%s environment variable is required", envVar)
	}
	var zero T
	return parseEnvValue(envVar, envValue, zero)
}

func parseEnvValue[T envTypes](envVar, envValue string, as T) T {
	var out any
	switch any(as).(type) {
	case string:
		out = envValue
	case int:
		intValue, err := strconv.Atoi(envValue)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s is not valid: '%s' is not an integer", envVar, envValue))
		}
		out = intValue
	case bool:
		boolValue, err := strconv.ParseBool(envValue)
		if err != nil {
			panic(fmt.Sprintf("environment variable %s is not valid: '%s' is not a boolean", envVar, envValue))
		}
		out = boolValue
	}
	return out.(T)
}
