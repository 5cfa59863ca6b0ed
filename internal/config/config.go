package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8082"`
}

type Commerce struct {
	BaseURL string        `yaml:"COMMERCE_BASE_URL" env:"COMMERCE_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"COMMERCE_TIMEOUT" env:"COMMERCE_TIMEOUT" env-default:"10s"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"CACHE_DEFAULT_TTL" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
	ProductTTL time.Duration `yaml:"CACHE_PRODUCT_TTL" env:"CACHE_PRODUCT_TTL" env-default:"2m"`
}

type SendGrid struct {
	APIKey    string `yaml:"SENDGRID_API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"SENDGRID_FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"noreply@medikart.example"`
	FromName  string `yaml:"SENDGRID_FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"MediKart Pharmacy"`
}

type Chat struct {
	ConnectDelay        time.Duration `yaml:"CHAT_CONNECT_DELAY" env:"CHAT_CONNECT_DELAY" env-default:"2s"`
	PharmacistName      string        `yaml:"CHAT_PHARMACIST_NAME" env:"CHAT_PHARMACIST_NAME" env-default:"Dr. Sarah Mitchell"`
	PharmacistSpecialty string        `yaml:"CHAT_PHARMACIST_SPECIALTY" env:"CHAT_PHARMACIST_SPECIALTY" env-default:"Clinical Pharmacy"`
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"OTLP_ENDPOINT" env:"OTLP_ENDPOINT" env-default:""`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	Commerce     Commerce     `yaml:"commerce"`
	RedisConnect RedisConnect `yaml:"redis"`
	Cache        CacheConfig  `yaml:"cache"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Chat         Chat         `yaml:"chat"`
	Telemetry    Telemetry    `yaml:"telemetry"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {

			log.Fatal("Config path is not set")

		}

	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := LoadConfigFromPath(configPath)

	if err != nil {

		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *RedisConnect) GetDSN() string {
	return "redis://" + r.Username + ":" + r.Password + "@" + r.Host + ":" + r.Port
}
