package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/code-payments/flipchat-billing/database/postgres"
	"github.com/code-payments/flipchat-billing/logger"
	"github.com/code-payments/flipchat-billing/playbilling"
)

const (
	TransportMemory = "memory"
	TransportPlay   = "play"
)

// Config holds all configuration for the billing daemon.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Billing holds the product keys and the transport selection.
	Billing playbilling.Config `mapstructure:"billing"`
	// Play holds configuration for the Google Play Developer API.
	Play PlayConfig `mapstructure:"play"`
	// Database holds configuration for the receipt database.
	Database postgres.Config `mapstructure:"database"`
	// Receipts holds configuration for receipt lookups.
	Receipts ReceiptsConfig `mapstructure:"receipts"`
}

type PlayConfig struct {
	// Transport is "memory" or "play".
	Transport string `mapstructure:"transport" default:"memory"`
	// PackageName is the Android app's package name.
	PackageName string `mapstructure:"package_name" default:""`
	// CredentialsFile is the path of a service account JSON file.
	CredentialsFile string `mapstructure:"credentials_file" default:""`
	// RegionCode selects regional subscription prices.
	RegionCode string `mapstructure:"region_code" default:"US"`
	// Owner is the buyer whose receipts are reconciled.
	Owner string `mapstructure:"owner" default:""`
}

type ReceiptsConfig struct {
	// CacheTTL is how long receipt lookups are cached. Zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl" default:"1m"`
}

// Load loads configuration from environment variables and the .env file in
// path.
func Load(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Missing .env is fine
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	// BILLING_CONSUMABLE_KEYS -> billing.consumable_keys
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues registers every mapstructure key with its default tag value so
// AutomaticEnv can resolve it.
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

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
