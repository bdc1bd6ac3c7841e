package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string `mapstructure:"port"`
	DataDir       string `mapstructure:"data_dir"`
	UploadsDir    string `mapstructure:"uploads_dir"`
	AdminPassword string `mapstructure:"admin_password"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.SetDefault("port", "3000")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("uploads_dir", "uploads")
	viper.SetDefault("admin_password", "admin123")

	// Read .env file
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Enable reading from OS environment variables as fallback/override
	viper.AutomaticEnv()

	AppConfig = &Config{
		Port:          viper.GetString("port"),
		DataDir:       viper.GetString("data_dir"),
		UploadsDir:    viper.GetString("uploads_dir"),
		AdminPassword: viper.GetString("admin_password"),
	}
}
