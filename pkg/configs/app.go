package configs

import (
	"github.com/spf13/viper"
)

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name" json:"name" yaml:"name" toml:"name"`
	Debug   bool   `mapstructure:"debug" json:"debug" yaml:"debug" toml:"debug"`
	Verbose bool   `mapstructure:"verbose" json:"verbose" yaml:"verbose" toml:"verbose"`
	Quiet   bool   `mapstructure:"quiet" json:"quiet" yaml:"quiet" toml:"quiet"` // 是否安静模式，只输出错误日志
}

// WatchConfig 监听模式配置
type WatchConfig struct {
	Debounce       int      `mapstructure:"debounce" json:"debounce" yaml:"debounce" toml:"debounce"`                                 // 防抖时间，毫秒
	IgnorePatterns []string `mapstructure:"ignore_patterns" json:"ignore_patterns" yaml:"ignore_patterns" toml:"ignore_patterns"` // 忽略的文件模式
}

func setAppConfigDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "codescope")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.verbose", false)
	v.SetDefault("app.quiet", false)
}

func setWatchConfigDefaults(v *viper.Viper) {
	v.SetDefault("watch.debounce", 300) // 毫秒
	v.SetDefault("watch.ignore_patterns", []string{
		"*.tmp",
		"*.swp",
		"*~",
		".git/*",
		"bin/*",
		"obj/*",
		"node_modules/*",
	})
}
