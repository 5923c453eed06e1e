package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type DiscordConfig struct {
	Token         string   `yaml:"token"`
	GuildID       string   `yaml:"guild_id"`
	AppID         string   `yaml:"app_id"`
	UserIDs       []string `yaml:"user_ids"`
	TodoChannelID string   `yaml:"todo_channel_id"`
}

type APIConfig struct {
	Key          string `yaml:"key"`
	PublicRead   bool   `yaml:"public_read"`
	CacheSeconds int    `yaml:"cache_seconds"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Discord DiscordConfig `yaml:"discord"`
	API     APIConfig     `yaml:"api"`
}

// CacheWindow converts api.cache_seconds into a duration, floored at zero.
func (c *Config) CacheWindow() time.Duration {
	if c.API.CacheSeconds < 0 {
		return 0
	}
	return time.Duration(c.API.CacheSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Secrets may come from the environment instead of the file.
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.API.Key = v
	}

	cfg.applyDefaults()

	if cfg.Discord.Token == "" || cfg.Discord.GuildID == "" || len(cfg.Discord.UserIDs) == 0 {
		return nil, fmt.Errorf("missing required config: discord.token, discord.guild_id, discord.user_ids")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.API.CacheSeconds == 0 {
		c.API.CacheSeconds = 20
	}
}
