package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	DiscordBot struct {
		Token string `yaml:"token"`
	} `yaml:"discord_bot"`
	Redis struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
		DB   int    `yaml:"db"`
	} `yaml:"redis"`
	DataDir              string `yaml:"data_dir"`
	PromptTimeoutSeconds int    `yaml:"prompt_timeout_seconds"`
	Debug                bool   `yaml:"debug"`
}

// LoadConfig читает конфигурацию из YAML-файла. Переменные окружения
// (в том числе из .env, если он есть) имеют приоритет над файлом.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	f, err := os.Open(filename)
	if err == nil {
		defer func(f *os.File) {
			if err := f.Close(); err != nil {
				fmt.Println("f.Close() failed ", err)
			}
		}(f)
		if err := yaml.NewDecoder(f).Decode(config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnvOverrides(config)
	applyDefaults(config)

	if config.DiscordBot.Token == "" {
		return nil, fmt.Errorf("discord bot token is not set (config %s or DISCORD_BOT_TOKEN)", filename)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if token := os.Getenv("DISCORD_BOT_TOKEN"); token != "" {
		config.DiscordBot.Token = token
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		config.Redis.Port = port
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			config.Redis.DB = db
		}
	}
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		config.Debug = true
	}
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Redis.Host == "" {
		config.Redis.Host = "localhost"
	}
	if config.Redis.Port == "" {
		config.Redis.Port = "6379"
	}
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.PromptTimeoutSeconds <= 0 {
		config.PromptTimeoutSeconds = 30
	}
}

// PromptTimeout возвращает время ожидания нажатия кнопки в приглашениях теста.
func (c *Config) PromptTimeout() time.Duration {
	return time.Duration(c.PromptTimeoutSeconds) * time.Second
}

// HTTPAddr возвращает адрес административного HTTP-сервера.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// RedisAddr возвращает адрес подключения к Redis.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
