package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/tangem/tangem-artwork-go/internal"
	"github.com/tangem/tangem-artwork-go/pkg/verifyapi"
)

const envPrefix = "TANGEM_ARTWORK"

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type StorageConfig struct {
	Dir     string `mapstructure:"dir"`
	Profile string `mapstructure:"profile"`
}

// VerifyAPIConfig configures artwork downloads. An empty base URL disables them.
type VerifyAPIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     uint64        `mapstructure:"max_retries"`
	MaxArtworkSize int64         `mapstructure:"max_artwork_size"`
}

// Enabled reports whether artwork downloads are configured.
func (c VerifyAPIConfig) Enabled() bool {
	return c.BaseURL != ""
}

func (c VerifyAPIConfig) ClientConfig() verifyapi.Config {
	return verifyapi.Config{
		BaseURL:        c.BaseURL,
		Timeout:        c.Timeout,
		MaxRetries:     c.MaxRetries,
		MaxArtworkSize: c.MaxArtworkSize,
	}
}

type Config struct {
	Debug     bool            `mapstructure:"debug"`
	LogFile   string          `mapstructure:"log_file"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	VerifyAPI VerifyAPIConfig `mapstructure:"verify_api"`
}

var keys = []string{
	"debug",
	"log_file",
	"server.address",
	"storage.dir",
	"storage.profile",
	"verify_api.base_url",
	"verify_api.timeout",
	"verify_api.max_retries",
	"verify_api.max_artwork_size",
}

// Load reads configFile (or config.yaml from the working directory when
// empty), then overlays .env files from envPath and TANGEM_ARTWORK_ variables.
func Load(configFile string, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	v.SetDefault("server.address", "localhost:0")
	v.SetDefault("storage.dir", "artwork-cache")
	v.SetDefault("storage.profile", "client")
	v.SetDefault("verify_api.base_url", internal.DefaultVerifyAPIURL)
	v.SetDefault("verify_api.timeout", "10s")
	v.SetDefault("verify_api.max_retries", 3)
	v.SetDefault("verify_api.max_artwork_size", internal.DefaultMaxArtworkSize)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &config, nil
}

func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
	return v
}

func loadEnv(envPath string) {
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}
