package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ReadConfig loads config.{yaml,toml,json} from configDir (default ./data/). environment variables
// override file values, with "." in a key replaced by "_" (cache.graph_ttl -> CACHE_GRAPH_TTL).
func ReadConfig(configDir string) error {
	if configDir == "" {
		configDir = "./data/"
	}
	viper.SetConfigName("config")
	viper.AddConfigPath(configDir)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// defaults + env only
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
