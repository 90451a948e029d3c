package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 发送策略
const (
	SendPolicyStep  = "step"  // 每 sendEvery 个物理步发送一次，输入变化后的下一步必发
	SendPolicyInput = "input" // 仅在输入变化后的下一步发送
)

type LogConfig struct {
	File    string `mapstructure:"file"`
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// RelayConfig 中继服务端配置
type RelayConfig struct {
	Addr         string        `mapstructure:"addr"`
	Path         string        `mapstructure:"path"`
	SendQueue    int           `mapstructure:"sendQueue"`
	ReadLimit    int64         `mapstructure:"readLimit"`
	PingInterval time.Duration `mapstructure:"pingInterval"`
}

// ClientConfig 客户端模拟与同步配置
type ClientConfig struct {
	Server      string        `mapstructure:"server"`
	PhysicsHz   int           `mapstructure:"physicsHz"`
	FrameHz     int           `mapstructure:"frameHz"`
	MaxSubSteps int           `mapstructure:"maxSubSteps"`
	SendPolicy  string        `mapstructure:"sendPolicy"`
	SendEvery   int           `mapstructure:"sendEvery"`
	DropStale   bool          `mapstructure:"dropStale"`
	HoldWindow  time.Duration `mapstructure:"holdWindow"`
}

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Relay  RelayConfig  `mapstructure:"relay"`
	Client ClientConfig `mapstructure:"client"`
}

// Load 读取配置：默认值 → 配置文件（可选）→ AIRSHIP_ 前缀环境变量
func Load(path string) (Config, error) {
	return load(path, true)
}

// Default 不读文件与环境变量的默认配置；默认值校验失败属于编程错误
func Default() Config {
	cfg, err := load("", false)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func load(path string, env bool) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if env {
		v.SetEnvPrefix("AIRSHIP")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.file", "airship.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)

	v.SetDefault("relay.addr", ":3001")
	v.SetDefault("relay.path", "/ws")
	v.SetDefault("relay.sendQueue", 64)
	v.SetDefault("relay.readLimit", 1<<20) // 1MB
	v.SetDefault("relay.pingInterval", 25*time.Second)

	v.SetDefault("client.server", "ws://localhost:3001/ws")
	v.SetDefault("client.physicsHz", 60)
	v.SetDefault("client.frameHz", 60)
	v.SetDefault("client.maxSubSteps", 5)
	v.SetDefault("client.sendPolicy", SendPolicyStep)
	v.SetDefault("client.sendEvery", 3)
	v.SetDefault("client.dropStale", false)
	v.SetDefault("client.holdWindow", 100*time.Millisecond)
}

func (c Config) Validate() error {
	var errs []error
	if c.Relay.Addr == "" {
		errs = append(errs, errors.New("relay.addr is empty"))
	}
	if !strings.HasPrefix(c.Relay.Path, "/") {
		errs = append(errs, fmt.Errorf("relay.path %q must start with /", c.Relay.Path))
	}
	if c.Relay.SendQueue <= 0 {
		errs = append(errs, fmt.Errorf("relay.sendQueue must be > 0, got %d", c.Relay.SendQueue))
	}
	if c.Relay.PingInterval <= 0 {
		errs = append(errs, fmt.Errorf("relay.pingInterval must be > 0, got %s", c.Relay.PingInterval))
	}
	if c.Client.PhysicsHz <= 0 || c.Client.FrameHz <= 0 {
		errs = append(errs, fmt.Errorf("client.physicsHz and client.frameHz must be > 0, got %d/%d",
			c.Client.PhysicsHz, c.Client.FrameHz))
	}
	if c.Client.MaxSubSteps <= 0 {
		errs = append(errs, fmt.Errorf("client.maxSubSteps must be > 0, got %d", c.Client.MaxSubSteps))
	}
	switch c.Client.SendPolicy {
	case SendPolicyStep, SendPolicyInput:
	default:
		errs = append(errs, fmt.Errorf("client.sendPolicy %q is not one of step, input", c.Client.SendPolicy))
	}
	if c.Client.SendEvery <= 0 {
		errs = append(errs, fmt.Errorf("client.sendEvery must be > 0, got %d", c.Client.SendEvery))
	}
	if c.Client.HoldWindow <= 0 {
		errs = append(errs, fmt.Errorf("client.holdWindow must be > 0, got %s", c.Client.HoldWindow))
	}
	return errors.Join(errs...)
}
