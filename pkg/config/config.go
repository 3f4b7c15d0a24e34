package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chenBenjamin97/pitch-analyzer/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

//EnvPrefix prefixes every environment override, e.g. PITCH_HTTP_PORT
const EnvPrefix = "PITCH"

var cacheBackends = []string{"file", "sqlite", "none"}

type Config struct {
	HTTP struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"http"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`

	Video struct {
		OutputCodec string  `mapstructure:"output_codec"`
		FPS         float64 `mapstructure:"fps"` //output fps only, measurements always use utils.FrameRate
	} `mapstructure:"video"`

	Tracker struct {
		Command []string `mapstructure:"command"`
	} `mapstructure:"tracker"`

	Cache struct {
		Backend string `mapstructure:"backend"`
		Path    string `mapstructure:"path"` //sqlite database, or the directory of file entries
		Read    bool   `mapstructure:"read"`
	} `mapstructure:"cache"`

	Landmark struct {
		Enabled   bool   `mapstructure:"enabled"`
		ModelPath string `mapstructure:"model_path"`
		InputSize int    `mapstructure:"input_size"`
	} `mapstructure:"landmark"`

	Report struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"report"`

	Directory struct {
		Results string `mapstructure:"results"`
	} `mapstructure:"directory"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("video.output_codec", "XVID")
	v.SetDefault("video.fps", float64(utils.FrameRate))
	v.SetDefault("tracker.command", []string{"python3", "tracker/track.py"})
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.path", "stubs")
	v.SetDefault("cache.read", true)
	v.SetDefault("landmark.enabled", true)
	v.SetDefault("landmark.model_path", "models/pitch_keypoints.onnx")
	v.SetDefault("landmark.input_size", 640)
	v.SetDefault("report.enabled", true)
	v.SetDefault("directory.results", "results")
}

//Load reads 'config.yaml' from given directories (current directory if none), then the environment.
//A '.env' file is loaded into the environment first if present. Missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: No .env file loaded, got '%v'", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Load: Could not read config file, got '%w'", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("Load: Could not decode config, got '%w'", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

//Validate checks the values that can not be defaulted at use
func (c *Config) Validate() error {
	if !utils.InSlice(c.Cache.Backend, cacheBackends) {
		return fmt.Errorf("Validate: Unknown cache backend '%s', expected one of %v", c.Cache.Backend, cacheBackends)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("Validate: Invalid http port %d", c.HTTP.Port)
	}

	if c.Directory.Results == "" {
		return errors.New("Validate: Missing critical configuration 'directory.results'")
	}

	return nil
}
