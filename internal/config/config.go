package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DSN" env-required:"true"`
	HTTP        HTTPConfig        `yaml:"http"`
	Token       TokenConfig       `yaml:"token"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Redis       RedisConfig       `yaml:"redis"`
}

type HTTPConfig struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"8080"`
	// BaseURL is the externally reachable prefix used to derive public
	// image URLs, e.g. "http://localhost:8080". Empty means derive it
	// from Host and Port.
	BaseURL string `yaml:"base_url"`
}

type TokenConfig struct {
	Secret     string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
	AccessTTL  time.Duration `yaml:"access_ttl" env-default:"1h"`
	RefreshTTL time.Duration `yaml:"refresh_ttl" env-default:"168h"`
}

type FileStorageConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	MaxSize int64  `yaml:"max_size" env-default:"10485760"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PublicBaseURL returns the prefix public image URLs are derived from.
func (c HTTPConfig) PublicBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return "http://" + c.Host + ":" + c.Port
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
