package configs

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// ScanConfig 扫描配置，命令行标志会覆盖这里的值
type ScanConfig struct {
	Roots              []string `mapstructure:"roots" json:"roots" yaml:"roots" toml:"roots"`                                                             // 扫描的根目录
	Keyword            string   `mapstructure:"keyword" json:"keyword" yaml:"keyword" toml:"keyword"`                                                     // 统计与提取片段的关键字
	Extensions         []string `mapstructure:"extensions" json:"extensions" yaml:"extensions" toml:"extensions"`                                         // 参与统计的扩展名
	Include            []string `mapstructure:"include" json:"include" yaml:"include" toml:"include"`                                                     // 仅统计匹配的路径
	Exclude            []string `mapstructure:"exclude" json:"exclude" yaml:"exclude" toml:"exclude"`                                                     // 排除匹配的路径
	GitIgnore          bool     `mapstructure:"gitignore" json:"gitignore" yaml:"gitignore" toml:"gitignore"`                                             // 是否遵循 .gitignore
	SkipSymlinks       bool     `mapstructure:"skip_symlinks" json:"skip_symlinks" yaml:"skip_symlinks" toml:"skip_symlinks"`                             // 跳过符号链接
	MaxFileSize        string   `mapstructure:"max_file_size" json:"max_file_size" yaml:"max_file_size" toml:"max_file_size"`                             // 例如 "2MB"，为空表示不限制
	Concurrency        int      `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency" toml:"concurrency"`                                     // <=1 串行，>1 并发分析
	TrackBlockComments bool     `mapstructure:"track_block_comments" json:"track_block_comments" yaml:"track_block_comments" toml:"track_block_comments"` // 跨行追踪块注释
	Sort               string   `mapstructure:"sort" json:"sort" yaml:"sort" toml:"sort"`                                                                 // 排序键
	Ascending          bool     `mapstructure:"ascending" json:"ascending" yaml:"ascending" toml:"ascending"`                                             // 升序
}

func setScanConfigDefaults(v *viper.Viper) {
	v.SetDefault("scan.roots", []string{"."})
	v.SetDefault("scan.keyword", "TODO")
	v.SetDefault("scan.extensions", []string{".cs"})
	v.SetDefault("scan.include", []string{})
	v.SetDefault("scan.exclude", []string{})
	v.SetDefault("scan.gitignore", false)
	v.SetDefault("scan.skip_symlinks", false)
	v.SetDefault("scan.max_file_size", "")
	v.SetDefault("scan.concurrency", 1)
	v.SetDefault("scan.track_block_comments", false)
	v.SetDefault("scan.sort", "size")
	v.SetDefault("scan.ascending", true)
}

// MaxFileSizeBytes 解析 MaxFileSize，为空时返回 0
func (s ScanConfig) MaxFileSizeBytes() (int64, error) {
	raw := strings.TrimSpace(s.MaxFileSize)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, fmt.Errorf("scan.max_file_size: %w", err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("scan.max_file_size: %q is too large", raw)
	}
	return int64(n), nil
}

// Validate 校验扫描配置
func (s ScanConfig) Validate() error {
	if _, err := s.MaxFileSizeBytes(); err != nil {
		return err
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency: must not be negative, got %d", s.Concurrency)
	}
	return nil
}
