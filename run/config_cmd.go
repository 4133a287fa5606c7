package run

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xhd2015/less-gen/flags"
	"github.com/xhd2015/partsearch/data"
	"github.com/xhd2015/partsearch/internal/config"
	"github.com/xhd2015/partsearch/models"
)

const configHelp = `
config - Show or change saved settings

Without options prints the config file path and the saved values.

Options:
  --set-api-base-url <url>     Save the catalog API base URL
  --set-asset-base-url <url>   Save the image host base URL
  --set-history <type>         Save the history backend: sqlite, file, or none
  -h,--help                    Show this help message

Examples:
  partsearch config
  partsearch config --set-api-base-url https://api.example.com
`

func handleConfig(args []string) error {
	var apiBaseURL string
	var assetBaseURL string
	var historyType string

	args, err := flags.String("--set-api-base-url", &apiBaseURL).
		String("--set-asset-base-url", &assetBaseURL).
		String("--set-history", &historyType).
		Help("-h,--help", configHelp).
		Parse(args)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unrecognized extra argument: %s", strings.Join(args, " "))
	}

	configPath, err := config.GetConfigTOMLFile()
	if err != nil {
		return err
	}
	conf, err := data.LoadConfigFile(configPath)
	if err != nil {
		return err
	}
	if conf == nil {
		conf = &models.Config{}
	}

	changed, err := applyConfigUpdates(conf, apiBaseURL, assetBaseURL, historyType)
	if err != nil {
		return err
	}
	if changed {
		if err := data.SaveConfigFile(conf, configPath); err != nil {
			return err
		}
	}

	fmt.Println(configPath)
	printConfig(os.Stdout, conf)
	return nil
}

func applyConfigUpdates(conf *models.Config, apiBaseURL string, assetBaseURL string, historyType string) (bool, error) {
	var changed bool
	if apiBaseURL != "" {
		conf.APIBaseURL = strings.TrimSuffix(apiBaseURL, "/")
		changed = true
	}
	if assetBaseURL != "" {
		conf.AssetBaseURL = strings.TrimSuffix(assetBaseURL, "/")
		changed = true
	}
	if historyType != "" {
		switch historyType {
		case "sqlite", "file", "none":
		default:
			return false, fmt.Errorf("unsupported history type: %s, available: sqlite, file, none", historyType)
		}
		conf.History = historyType
		changed = true
	}
	return changed, nil
}

func printConfig(out io.Writer, conf *models.Config) {
	value := func(s string) string {
		if s == "" {
			return "(unset)"
		}
		return s
	}
	fmt.Fprintf(out, "  api_base_url:   %s\n", value(conf.APIBaseURL))
	fmt.Fprintf(out, "  asset_base_url: %s\n", value(conf.AssetBaseURL))
	fmt.Fprintf(out, "  history:        %s\n", value(conf.History))
}
