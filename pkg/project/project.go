// Package project 执行 codescope 的命令逻辑：扫描源码根目录、渲染报告、交互打开片段与监听模式
package project

import (
	"fmt"

	"github.com/yeisme/codescope/pkg/configs"
	"github.com/yeisme/codescope/pkg/utils/count"
)

// ScanOptions 一次扫描及其展示所需的全部选项
// 由配置文件初始化，再由命令行标志覆盖
type ScanOptions struct {
	// 扫描
	Roots              []string
	Keyword            string
	Extensions         []string
	Include            []string
	Exclude            []string
	GitIgnore          bool
	SkipSymlinks       bool
	MaxFileSize        string
	Concurrency        int
	TrackBlockComments bool
	Sort               string
	Ascending          bool

	// 展示
	Format   configs.OutputFormat
	Match    string // 按文件名模糊过滤展示的文件
	Top      int    // 只展示前 N 个文件，<=0 表示全部
	Snippets bool
	Pick     bool // 交互选择片段并在编辑器中打开
	Width    int
	Theme    string
	Editor   string
}

// OptionsFromConfig 从配置生成默认选项
func OptionsFromConfig(cfg *configs.Config) ScanOptions {
	format, err := configs.ParseOutputFormat(cfg.Display.Format)
	if err != nil {
		format = configs.FormatTable
	}
	return ScanOptions{
		Roots:              cfg.Scan.Roots,
		Keyword:            cfg.Scan.Keyword,
		Extensions:         cfg.Scan.Extensions,
		Include:            cfg.Scan.Include,
		Exclude:            cfg.Scan.Exclude,
		GitIgnore:          cfg.Scan.GitIgnore,
		SkipSymlinks:       cfg.Scan.SkipSymlinks,
		MaxFileSize:        cfg.Scan.MaxFileSize,
		Concurrency:        cfg.Scan.Concurrency,
		TrackBlockComments: cfg.Scan.TrackBlockComments,
		Sort:               cfg.Scan.Sort,
		Ascending:          cfg.Scan.Ascending,
		Format:             format,
		Snippets:           cfg.Display.Snippets,
		Width:              cfg.Display.Width,
		Theme:              cfg.Display.Theme,
		Editor:             cfg.Display.Editor,
	}
}

// Request 将选项转换为引擎的扫描请求
func (o ScanOptions) Request() (count.ScanRequest, error) {
	key, err := count.ParseSortKey(o.Sort)
	if err != nil {
		return count.ScanRequest{}, err
	}
	maxSize, err := configs.ScanConfig{MaxFileSize: o.MaxFileSize}.MaxFileSizeBytes()
	if err != nil {
		return count.ScanRequest{}, err
	}
	if o.Concurrency < 0 {
		return count.ScanRequest{}, fmt.Errorf("concurrency must not be negative, got %d", o.Concurrency)
	}

	roots := o.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	return count.ScanRequest{
		Roots:   roots,
		Keyword: o.Keyword,
		Options: count.Options{
			Extensions:         o.Extensions,
			Include:            o.Include,
			Exclude:            o.Exclude,
			RespectGitignore:   o.GitIgnore,
			SkipSymlinks:       o.SkipSymlinks,
			MaxFileSizeBytes:   maxSize,
			Concurrency:        o.Concurrency,
			TrackBlockComments: o.TrackBlockComments,
		},
		SortKey:   key,
		Ascending: o.Ascending,
	}, nil
}
