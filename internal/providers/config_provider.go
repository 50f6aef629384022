package providers

import (
	"fmt"
	"minedash/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("esi.baseUrl", "https://esi.evetech.net/latest")
	v.SetDefault("esi.ssoUrl", "https://login.eveonline.com")
	v.SetDefault("esi.userAgent", "minedash")
	v.SetDefault("esi.timeout", 20*time.Second)
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("cache.ttl", time.Minute)

	v.BindEnv("logger.level", "MINEDASH_LOG_LEVEL")
	v.BindEnv("storage.driver", "MINEDASH_STORAGE_DRIVER")
	v.BindEnv("mysql.host", "MINEDASH_MYSQL_HOST")
	v.BindEnv("mysql.password", "MINEDASH_MYSQL_PASSWORD")
	v.BindEnv("esi.clientId", "MINEDASH_ESI_CLIENT_ID")
	v.BindEnv("esi.secretKey", "MINEDASH_ESI_SECRET_KEY")
	v.BindEnv("esi.callbackUrl", "MINEDASH_ESI_CALLBACK")
	v.BindEnv("session.secretKey", "MINEDASH_SECRET_KEY")
	v.BindEnv("redis.addr", "MINEDASH_REDIS_ADDR")
	v.BindEnv("cache.enabled", "MINEDASH_CACHE_ENABLED")
	v.BindEnv("cache.size", "MINEDASH_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "MiningDashboard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
