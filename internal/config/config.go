package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Postgres   Postgres   `yaml:"postgres"`
	Redis      Redis      `yaml:"redis"`
	JWT        JWT        `yaml:"jwt"`
	SMTP       SMTP       `yaml:"smtp"`
	Minio      Minio      `yaml:"minio"`
	Frontend   Frontend   `yaml:"frontend"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:3001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Redis struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" env-default:"0"`
}

type JWT struct {
	AccessSecret  string        `yaml:"access_secret" env:"ACCESS_SECRET"`
	RefreshSecret string        `yaml:"refresh_secret" env:"REFRESH_SECRET"`
	AccessTTL     time.Duration `yaml:"access_token_ttl" env-default:"1h"`
	RefreshTTL    time.Duration `yaml:"refresh_token_ttl" env-default:"168h"`
}

type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" env-default:"587"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type Minio struct {
	Endpoint   string        `yaml:"endpoint" env-default:"minio:9000"`
	AccessKey  string        `yaml:"access_key"`
	SecretKey  string        `yaml:"secret_key"`
	UseSSL     bool          `yaml:"use_ssl"`
	Bucket     string        `yaml:"bucket" env-default:"receipts"`
	PresignTTL time.Duration `yaml:"presign_ttl" env-default:"24h"`
}

type Frontend struct {
	BaseURL string `yaml:"base_url" env-default:"http://localhost:3001"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Can not read config file %s", err)
	}

	return &cfg
}
