package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/xhd2015/partsearch/internal/config"
	"github.com/xhd2015/partsearch/models"
)

// LoadConfig returns nil, nil when no config file exists yet.
func LoadConfig() (*models.Config, error) {
	configFile, err := config.GetConfigTOMLFile()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configFile)
}

func LoadConfigFile(configFile string) (*models.Config, error) {
	configData, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	if len(configData) == 0 {
		return nil, nil
	}

	var conf models.Config
	err = toml.Unmarshal(configData, &conf)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}

	return &conf, nil
}

func SaveConfig(conf *models.Config) error {
	configFile, err := config.GetConfigTOMLFile()
	if err != nil {
		return err
	}
	return SaveConfigFile(conf, configFile)
}

func SaveConfigFile(conf *models.Config, configFile string) error {
	data, err := toml.Marshal(conf)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(configFile, data, 0644)
}
