package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kionell/osu-standard-stable/osuapi"
)

// loadConfig reads stdpp.json from configDir and sets default values.
// A missing file leaves the defaults in place.
func loadConfig(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("database", "./stdpp.db")
	viper.SetDefault("mapsDir", "./maps")
	viper.SetDefault("workers", 4)

	viper.SetDefault("api.baseUrl", osuapi.DefaultBaseURL)
	viper.SetDefault("api.clientId", 0)
	viper.SetDefault("api.clientSecret", "")
	viper.SetDefault("api.rateLimit", 60)
	viper.SetDefault("api.concurrency", 2)
	viper.SetDefault("api.timeout", "2m")

	viper.SetConfigName("stdpp")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	viper.SetEnvPrefix("STDPP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func apiConfig() osuapi.Config {
	return osuapi.Config{
		BaseURL:      viper.GetString("api.baseUrl"),
		ClientID:     viper.GetInt("api.clientId"),
		ClientSecret: viper.GetString("api.clientSecret"),
		RateLimit:    viper.GetInt("api.rateLimit"),
		Concurrency:  viper.GetInt("api.concurrency"),
		Timeout:      viper.GetDuration("api.timeout"),
	}
}

// workers is the configured worker count, never below one.
func workers() int {
	return max(1, viper.GetInt("workers"))
}
