// Package config loads the application configuration and the optional .env
// file that seeds environment variables.
package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory. It runs once per process and reports the file it loaded,
// or "" when none was found.
func LoadEnv() (loaded string) {
	envOnce.Do(func() {
		loaded = loadEnvFile()
	})
	return loaded
}

func loadEnvFile() string {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return ""
		}
	}

	// Existing environment variables win over the file.
	if err := godotenv.Load(envFile); err != nil {
		return ""
	}
	return envFile
}
