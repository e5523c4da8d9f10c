package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"silkroad/game"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Game    GameConfig    `toml:"game"`
	Logging LoggingConfig `toml:"logging"`
}

type ServerConfig struct {
	Addr                string `toml:"addr"`
	DefaultPlayer       string `toml:"default_player"` // 原型阶段所有连接共用的玩家身份
	DefaultMatch        string `toml:"default_match"`
	ReleaseOnDisconnect bool   `toml:"release_on_disconnect"` // 最后一个连接断开时移除玩家及其单位
}

type NetworkConfig struct {
	TickRate           time.Duration `toml:"tick_rate"`
	InQueueSize        int           `toml:"in_queue_size"`
	OutQueueSize       int           `toml:"out_queue_size"`
	MaxCommandsPerTick int           `toml:"max_commands_per_tick"` // 0 不限
	CommandsPerSecond  float64       `toml:"commands_per_second"`   // <= 0 不限速
	CommandBurst       int           `toml:"command_burst"`
	WriteTimeout       time.Duration `toml:"write_timeout"`
	ReadTimeout        time.Duration `toml:"read_timeout"`
	ReadLimit          int64         `toml:"read_limit"`
}

type GameConfig struct {
	BalanceFile     string `toml:"balance_file"` // 为空使用内置数值表
	AutoStartBattle bool   `toml:"auto_start_battle"`
	Seed            int64  `toml:"seed"` // 0 = 按时间取种
}

type LoggingConfig struct {
	File       string `toml:"file"`
	Level      string `toml:"level"`
	Stderr     bool   `toml:"stderr"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Load 读取 TOML 配置并覆盖默认值；path 为空时直接返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Network.TickRate <= 0 {
		return fmt.Errorf("network.tick_rate must be positive")
	}
	if c.Network.InQueueSize <= 0 || c.Network.OutQueueSize <= 0 {
		return fmt.Errorf("network queue sizes must be positive")
	}
	if c.Network.ReadTimeout <= 0 || c.Network.WriteTimeout <= 0 {
		return fmt.Errorf("network read/write timeouts must be positive")
	}
	if c.Server.DefaultPlayer == "" || c.Server.DefaultMatch == "" {
		return fmt.Errorf("server.default_player and server.default_match are required")
	}
	if !game.ValidPlayerID(c.Server.DefaultPlayer) {
		return fmt.Errorf("server.default_player %q is reserved", c.Server.DefaultPlayer)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":3000",
			DefaultPlayer: "player1",
			DefaultMatch:  "match-1",
		},
		Network: NetworkConfig{
			TickRate:           50 * time.Millisecond, // 20 TPS
			InQueueSize:        256,
			OutQueueSize:       64,
			MaxCommandsPerTick: 64,
			CommandsPerSecond:  20,
			CommandBurst:       10,
			WriteTimeout:       5 * time.Second,
			ReadTimeout:        60 * time.Second,
			ReadLimit:          1 << 20,
		},
		Game: GameConfig{
			AutoStartBattle: true,
		},
		Logging: LoggingConfig{
			File:       "silkroad.log",
			Level:      "debug",
			Stderr:     true,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}
