package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	DBUrl    string `mapstructure:"DB_URL"`
	RedisUrl string `mapstructure:"REDIS_URL"`
	OSRMUrl  string `mapstructure:"OSRM_URL"`
	TileUrl  string `mapstructure:"TILE_URL"`
	LogFile  string `mapstructure:"LOG_FILE"`
	SimDemo  bool   `mapstructure:"SIM_DEMO"`
}

func LoadConfig() (c Config, err error) {
	// Get environment type from ENV variable or use development as default
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Set default values
	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("OSRM_URL", "https://router.project-osrm.org")
	viper.SetDefault("TILE_URL", "https://%s.tile.openstreetmap.org/%d/%d/%d.png")
	viper.SetDefault("LOG_FILE", "respondnav.log")
	viper.SetDefault("SIM_DEMO", false)

	// Load environment file
	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(".") // Look in the project root directory

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		// Continue even if file is not found
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// Map the values to the Config struct
	err = viper.Unmarshal(&c)
	return
}
