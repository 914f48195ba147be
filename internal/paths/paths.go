package paths

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the data directory when set.
const HomeEnv = "NOSFERATU_HOME"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// DataDir returns $NOSFERATU_HOME, or ~/.naming-nosferatu.
func DataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".naming-nosferatu")
}

// ConfigFile returns <data>/config.yaml.
func ConfigFile() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// EnvFile returns <data>/.env.
func EnvFile() string {
	return filepath.Join(DataDir(), ".env")
}

// DatabaseFile returns the default sqlite database, <data>/names.db.
func DatabaseFile() string {
	return filepath.Join(DataDir(), "names.db")
}

// YAMLStoreDir returns the directory holding the yaml store documents.
func YAMLStoreDir() string {
	return filepath.Join(DataDir(), "store")
}

// LogDir returns <data>/logs.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}
