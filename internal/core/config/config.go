package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Redis holds the redis connection configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Tracking holds the tracking loop configuration.
	Tracking TrackingConfig `mapstructure:",squash"`

	// Alerts holds the alert channel configuration.
	Alerts AlertsConfig `mapstructure:",squash"`

	// Trips holds the trip log configuration.
	Trips TripsConfig `mapstructure:",squash"`
}

// RedisConfig holds the redis connection details.
type RedisConfig struct {
	// URL is the redis connection string, e.g. redis://localhost:6379/0.
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0" required:"true"`
}

// TrackingConfig tunes the position tracking loop.
type TrackingConfig struct {
	// PollIntervalSeconds is the fallback poll cadence.
	PollIntervalSeconds int `mapstructure:"POLL_INTERVAL_SECONDS" default:"10"`
	// PositionTimeoutMS bounds a single position acquisition.
	PositionTimeoutMS int `mapstructure:"POSITION_TIMEOUT_MS" default:"15000"`
	// PositionMaxAgeMS is the oldest cached fix the fallback poll may serve.
	PositionMaxAgeMS int `mapstructure:"POSITION_MAX_AGE_MS" default:"30000"`
	// HighAccuracy asks the position source for its best fix.
	HighAccuracy bool `mapstructure:"HIGH_ACCURACY" default:"true"`
}

// AlertsConfig configures the alert channels.
type AlertsConfig struct {
	// NotifyWebhookURL is the push notification webhook. Empty disables the
	// system notification channel.
	NotifyWebhookURL string `mapstructure:"NOTIFY_WEBHOOK_URL"`
	// EffectsChannel is the redis channel device effect commands go out on.
	EffectsChannel string `mapstructure:"EFFECTS_CHANNEL" default:"device_effects"`
	// SideEffectTimeoutMS bounds each individual alert side effect.
	SideEffectTimeoutMS int `mapstructure:"SIDE_EFFECT_TIMEOUT_MS" default:"5000"`
}

// TripsConfig configures the trip log.
type TripsConfig struct {
	// Backend selects the trip log store: "redis" or "sqlite".
	Backend string `mapstructure:"TRIPS_BACKEND" default:"redis"`
	// DBPath is the sqlite file used when Backend is "sqlite".
	DBPath string `mapstructure:"TRIPS_DB_PATH" default:"trips.db"`
	// MaxRecords caps the trip log; the oldest entry is evicted on overflow.
	MaxRecords int `mapstructure:"TRIPS_MAX" default:"100"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
