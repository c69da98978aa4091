// Package count 提供源码度量的核心引擎：文件发现、行分类、单文件分析、语料汇总与排序
package count

import (
	"context"
	"strings"

	"github.com/yeisme/codescope/pkg/models"
)

// DefaultExtensions 默认参与统计的文件扩展名
var DefaultExtensions = []string{".cs"}

// Options 用于控制统计行为与范围
// 所有字段均为可选，零值表示采用实现的默认策略
type Options struct {
	// 过滤与遍历
	Extensions       []string // 参与统计的扩展名（不区分大小写，为空时使用 DefaultExtensions）
	Include          []string // 仅统计匹配这些 glob 的路径（优先级高于 Exclude）
	Exclude          []string // 排除匹配这些 glob 的路径
	RespectGitignore bool     // 是否遵循 .gitignore（同时跳过 .git 目录）
	SkipSymlinks     bool     // 跳过符号链接（默认统计指向文件的链接）
	MaxFileSizeBytes int64    // 超过该大小的文件将被跳过（0 表示不限制）

	// 并发控制，<=1 表示按发现顺序串行分析
	Concurrency int

	// TrackBlockComments 开启后跨行追踪块注释，块注释内部的行也会计为注释行
	TrackBlockComments bool
}

// FileCounter 单文件分析接口
type FileCounter interface {
	// AnalyzeFile 分析单个文件，读取失败时返回 *ReadError
	AnalyzeFile(ctx context.Context, filePath, keyword string) (*models.FileMetrics, error)
}

// Scanner 语料扫描接口
type Scanner interface {
	// Scan 丢弃上一次的结果并从零开始重新扫描
	Scan(ctx context.Context, req ScanRequest) (*models.ScanResult, error)
}

// ScanRequest 描述一次扫描
type ScanRequest struct {
	Roots     []string
	Keyword   string
	Options   Options
	SortKey   SortKey
	Ascending bool
}

var (
	// ExtToLang 创建扩展名到语言的映射表
	ExtToLang = map[string]string{
		".go":    "Go",
		".cs":    "C#",
		".js":    "JavaScript",
		".ts":    "TypeScript",
		".jsx":   "JavaScript",
		".tsx":   "TypeScript",
		".py":    "Python",
		".pyi":   "Python",
		".java":  "Java",
		".c":     "C",
		".h":     "C",
		".cc":    "C++",
		".cpp":   "C++",
		".cxx":   "C++",
		".hpp":   "C++",
		".rs":    "Rust",
		".rb":    "Ruby",
		".swift": "Swift",
		".kt":    "Kotlin",
		".scala": "Scala",
		".sh":    "Shell",
		".bash":  "Shell",
		".sql":   "SQL",
		".php":   "PHP",
		".lua":   "Lua",
	}

	// LangToComment 语言到注释风格的映射，未登记的语言使用 C 风格
	LangToComment = map[string]CommentStyle{
		"Python": {Line: []string{"#"}},
		"Ruby":   {Line: []string{"#"}, BlockStart: "=begin", BlockEnd: "=end"},
		"Shell":  {Line: []string{"#"}},
		"SQL":    {Line: []string{"--"}, BlockStart: "/*", BlockEnd: "*/"},
		"Lua":    {Line: []string{"--"}, BlockStart: "--[[", BlockEnd: "]]"},
		"PHP":    {Line: []string{"//", "#"}, BlockStart: "/*", BlockEnd: "*/"},
	}

	// CStyleComment 是 C 家族语言的注释标记
	CStyleComment = CommentStyle{Line: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"}
)

// CommentStyle 描述一种语言的注释标记
type CommentStyle struct {
	Line       []string
	BlockStart string
	BlockEnd   string
}

// CommentStyleFor 返回扩展名对应的注释风格
func CommentStyleFor(ext string) CommentStyle {
	if style, ok := LangToComment[ExtToLang[strings.ToLower(ext)]]; ok {
		return style
	}
	return CStyleComment
}

// normalizeExtensions 统一为小写并补全前导点
func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
