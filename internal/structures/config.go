package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required|in:memory,mysql"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbName"`
}

type EsiConfig struct {
	BaseUrl     string        `yaml:"baseUrl" validate:"required"`
	SsoUrl      string        `yaml:"ssoUrl" validate:"required"`
	ClientId    string        `yaml:"clientId" validate:"required"`
	SecretKey   string        `yaml:"secretKey" validate:"required"`
	CallbackUrl string        `yaml:"callbackUrl" validate:"required"`
	UserAgent   string        `yaml:"userAgent"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SessionConfig struct {
	SecretKey string        `yaml:"secretKey" validate:"required|minLen:16"`
	TTL       time.Duration `yaml:"ttl"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Logger      LoggerConfig  `yaml:"logger"`
	Storage     StorageConfig `yaml:"storage"`
	MySQL       MySQLConfig   `yaml:"mysql"`
	Persistence Persistence   `yaml:"persistence"`
	Esi         EsiConfig     `yaml:"esi"`
	Session     SessionConfig `yaml:"session"`
	Redis       RedisConfig   `yaml:"redis"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
