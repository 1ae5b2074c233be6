package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Server struct {
	Address     string `envconfig:"SERVER_ADDRESS" default:":8080"`
	ReadTimeout int    `envconfig:"SERVER_TIMEOUT" default:"10"`
}

type Nominatim struct {
	URL       string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org/search"`
	UserAgent string `envconfig:"NOMINATIM_USER_AGENT" default:"city-weather/1.0"`
	Language  string `envconfig:"NOMINATIM_LANGUAGE"`
}

type OpenMeteo struct {
	URL string `envconfig:"OPEN_METEO_URL" default:"https://api.open-meteo.com/v1/forecast"`
}

type HTTPClient struct {
	Timeout int `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DbType   int    `envconfig:"REDIS_DB_TYPE" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"24"`
}

type Storage struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	Path   string `envconfig:"STORAGE_PATH" default:"./data/favorites.db"`
}

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"city-weather"`

	Server     Server
	Nominatim  Nominatim
	OpenMeteo  OpenMeteo
	HTTPClient HTTPClient
	Breaker    Breaker
	Redis      Redis
	Storage    Storage

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/city-weather.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/outbound-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Storage.Driver != StorageSQLite && cfg.Storage.Driver != StorageMemory {
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	return &cfg, nil
}

func (c Config) RedisAddress() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c Config) ClientTimeout() time.Duration {
	return time.Duration(c.HTTPClient.Timeout) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.LiveTime) * time.Hour
}
