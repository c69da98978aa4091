// Package configs 提供应用程序配置管理功能
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 CODESCOPE_SCAN_KEYWORD
const EnvPrefix = "CODESCOPE"

// Config 应用配置结构
type Config struct {
	Version string        `mapstructure:"version" json:"version" yaml:"version" toml:"version"`
	Log     LogConfig     `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
	App     AppConfig     `mapstructure:"app" json:"app" yaml:"app" toml:"app"`
	Scan    ScanConfig    `mapstructure:"scan" json:"scan" yaml:"scan" toml:"scan"`
	Watch   WatchConfig   `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`
	Display DisplayConfig `mapstructure:"display" json:"display" yaml:"display" toml:"display"`
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")
	setLogConfigDefaults(v)
	setAppConfigDefaults(v)
	setScanConfigDefaults(v)
	setWatchConfigDefaults(v)
	setDisplayConfigDefaults(v)
}

// searchPaths 返回配置文件搜索路径
func searchPaths() []string {
	paths := []string{
		".",
		"./configs",
		"$HOME",
		"$HOME/.config",
		"$HOME/.config/codescope",
	}

	// Windows 特殊路径
	if runtime.GOOS == "windows" {
		paths = append(paths, "$USERPROFILE", "$APPDATA/codescope")
	} else {
		paths = append(paths, "/etc/codescope")
	}
	return paths
}

// findConfigFile 按搜索路径查找第一个存在的配置文件
func findConfigFile() string {
	configNames := []string{".codescope", "codescope"}
	extensions := []string{"yaml", "yml", "json", "toml"}

	for _, path := range searchPaths() {
		for _, name := range configNames {
			for _, ext := range extensions {
				configFile := filepath.Join(path, name+"."+ext)
				if strings.Contains(configFile, "$") {
					configFile = os.ExpandEnv(configFile)
				}
				if _, err := os.Stat(configFile); err == nil {
					return configFile
				}
			}
		}
	}
	return ""
}

// NewViper 创建带默认值与环境变量绑定的 viper 实例
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfig 加载配置文件，configPath 为空时按搜索路径查找
// 找不到配置文件不是错误，此时只使用默认值与环境变量
func LoadConfig(configPath string) (*Config, *viper.Viper, error) {
	v := NewViper()

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, v, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, v, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 确保日志目录存在
	if config.Log.Mode == "file" || config.Log.Mode == "both" {
		logDir := filepath.Dir(config.Log.FilePath)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, v, fmt.Errorf("创建日志目录失败: %w", err)
		}
	}

	return &config, v, nil
}

// Validate 校验配置中无法由类型系统保证的字段
func (c *Config) Validate() error {
	var errs []error
	switch c.Log.Mode {
	case "console", "file", "both":
	default:
		errs = append(errs, fmt.Errorf("log.mode: unsupported value %q", c.Log.Mode))
	}
	if err := c.Scan.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce: must not be negative, got %d", c.Watch.Debounce))
	}
	if c.Display.Format != "" {
		if _, err := ParseOutputFormat(c.Display.Format); err != nil {
			errs = append(errs, fmt.Errorf("display.format: %w", err))
		}
	}
	return errors.Join(errs...)
}
