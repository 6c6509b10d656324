package config

import (
	"reflect"
	"strings"

	"tablediff/core/compare"
	"tablediff/core/database"
	"tablediff/core/dispatch"
	"tablediff/core/logger"
	"tablediff/core/schedule"
	"tablediff/core/server"
	"tablediff/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds the connection of the result store and connection registry.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for publishing exports to object storage.
	Storage storage.Config `mapstructure:"storage"`
	// Compare tunes comparison runs.
	Compare compare.Config `mapstructure:"compare"`
	// Dispatch selects where differences are forwarded.
	Dispatch dispatch.Config `mapstructure:"dispatch"`
	// Schedule controls the background scheduler of recurring comparisons.
	Schedule schedule.Config `mapstructure:"schedule"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine, e.g. in production
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// COMPARE_QUEUE_SIZE -> compare.queue_size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Registering every key, even with an empty default, is what lets AutomaticEnv see it
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
