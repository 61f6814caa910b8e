package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是 ziwei-verify 的顶层配置结构。
type Config struct {
	Report ReportConfig `yaml:"report"`
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

// ReportConfig 排盘参数。除 hours 外每次排盘都相同。
type ReportConfig struct {
	Date   string `yaml:"date"`
	Hours  []int  `yaml:"hours"`
	Gender string `yaml:"gender"`
	// IsLunar 原样传给引擎的第四个参数，未设置时为 true。
	IsLunar    *bool  `yaml:"is_lunar"`
	Locale     string `yaml:"locale"`
	CrossCheck bool   `yaml:"crosscheck"`
}

// EngineConfig iztro 引擎配置。
type EngineConfig struct {
	NodePath string `yaml:"node_path"`
	// ModuleDir 包含 node_modules 的目录，用作 NODE_PATH。
	ModuleDir      string `yaml:"module_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout 返回单次排盘的超时时间。
func (e EngineConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Default 返回不读文件时的默认配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Report.Date == "" {
		cfg.Report.Date = "1989-10-17"
	}
	if len(cfg.Report.Hours) == 0 {
		cfg.Report.Hours = []int{11, 12, 13}
	}
	if cfg.Report.Gender == "" {
		cfg.Report.Gender = "male"
	}
	if cfg.Report.IsLunar == nil {
		v := true
		cfg.Report.IsLunar = &v
	}
	if cfg.Report.Locale == "" {
		cfg.Report.Locale = "zh-CN"
	}
	if cfg.Engine.NodePath == "" {
		cfg.Engine.NodePath = "node"
	}
	if cfg.Engine.TimeoutSeconds == 0 {
		cfg.Engine.TimeoutSeconds = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}

	cfg.Report.Gender = strings.ToLower(strings.TrimSpace(cfg.Report.Gender))
	if strings.HasPrefix(cfg.Engine.ModuleDir, "~/") {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Engine.ModuleDir = home + cfg.Engine.ModuleDir[1:]
		}
	}
}

func (cfg *Config) validate() error {
	for _, h := range cfg.Report.Hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("report.hours 中的 %d 超出 0-23", h)
		}
	}
	if cfg.Engine.TimeoutSeconds < 0 {
		return fmt.Errorf("engine.timeout_seconds 不能为负数")
	}
	return nil
}
