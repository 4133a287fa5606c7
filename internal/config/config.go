package config

import (
	"os"
	"path/filepath"
)

const appDirName = "partsearch"

// overrides os.UserConfigDir, used by tests and sandboxes
const dirEnv = "PARTSEARCH_CONFIG_DIR"

func GetConfigDir() (string, error) {
	if dir := os.Getenv(dirEnv); dir != "" {
		return dir, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, appDirName), nil
}

func GetConfigFile(name string) (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func GetConfigTOMLFile() (string, error) {
	return GetConfigFile("config.toml")
}

func GetHistoryJSONFile() (string, error) {
	return GetConfigFile("history.json")
}

func GetSqliteFile() (string, error) {
	return GetConfigFile("history.db")
}

func GetLogDir() (string, error) {
	return GetConfigFile("logs")
}
