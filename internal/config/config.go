// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
//
// StorageConnectionString может быть пустой — тогда используется
// встроенное хранилище в памяти (режим демо, без персистентности).
// AMQPConnection может быть пустой — тогда события подписок не публикуются.
type Config struct {
	Env                     string        `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string        `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	AMQPConnection          string        `yaml:"amqp_connection" env:"AMQP_CONNECTION"`
	AllowedOrigin           string        `yaml:"allowed_origin" env:"ALLOWED_ORIGIN" env-default:"*"`
	TrialWindow             time.Duration `yaml:"trial_window" env:"TRIAL_WINDOW" env-default:"720h"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Session                 `yaml:"session"`
	Admin                   `yaml:"admin"`
	Identity                `yaml:"identity"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"ADDRESS_HTTP" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой AddressRedis означает хранение сессий в памяти процесса.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"ADDRESS_REDIS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// Session структура для настройки серверных сессий
type Session struct {
	CookieName   string        `yaml:"cookie_name" env-default:"gatekeeper_session"`
	SessionTTL   time.Duration `yaml:"session_ttl" env-default:"24h"`
	CookieSecure bool          `yaml:"cookie_secure" env-default:"false"`
}

// Admin структура с настройками административного доступа
type Admin struct {
	AdminKey string `yaml:"admin_key" env:"ADMIN_KEY" env-required:"true"`
}

// Identity структура с настройками проверки токена идентификации
type Identity struct {
	TokenSecretKey string `yaml:"token_secret_key" env:"TOKEN_SECRET_KEY" env-required:"true"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"MigrationsPath: %s\n"+
			"AMQPConnection: %s\n"+
			"AllowedOrigin: %s\n"+
			"TrialWindow: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  SessionTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.MigrationsPath,
		c.AMQPConnection,
		c.AllowedOrigin,
		c.TrialWindow,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.CookieName,
		c.SessionTTL,
	)
}
