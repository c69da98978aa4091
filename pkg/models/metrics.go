package models

import "time"

// CodeSnippet 记录包含关键字的一行源码
type CodeSnippet struct {
	LineNumber int    `json:"line_number" yaml:"line_number" toml:"line_number" jsonschema:"title=LineNumber,description=1-based line index,minimum=1"`
	Text       string `json:"text" yaml:"text" toml:"text" jsonschema:"title=Text,description=Raw text of the matching line"`
}

// FileMetrics 存储单个文件的度量结果
// 由分析器创建后不再修改，排序只会重排集合，不会改动记录本身
type FileMetrics struct {
	Path             string        `json:"path" yaml:"path" toml:"path" jsonschema:"title=Path,description=Absolute file path"`
	DisplayName      string        `json:"display_name" yaml:"display_name" toml:"display_name" jsonschema:"title=DisplayName,description=Base name of the file"`
	SizeBytes        int64         `json:"size_bytes" yaml:"size_bytes" toml:"size_bytes" jsonschema:"minimum=0"`
	LineCount        int           `json:"line_count" yaml:"line_count" toml:"line_count" jsonschema:"minimum=0"`
	CharacterCount   int           `json:"character_count" yaml:"character_count" toml:"character_count" jsonschema:"minimum=0"`
	CommentLineCount int           `json:"comment_line_count" yaml:"comment_line_count" toml:"comment_line_count" jsonschema:"minimum=0"`
	ComplexityScore  int           `json:"complexity_score" yaml:"complexity_score" toml:"complexity_score" jsonschema:"minimum=0"`
	KeywordCount     int           `json:"keyword_count" yaml:"keyword_count" toml:"keyword_count" jsonschema:"minimum=0"`
	Snippets         []CodeSnippet `json:"snippets" yaml:"snippets" toml:"snippets"`
}

// AnalysisSummary 是一次扫描的汇总统计
// 每个字段都是当前 FileMetrics 集合上的精确求和（或计数），TotalFiles 例外：
// 读取失败的文件同样计入 TotalFiles
type AnalysisSummary struct {
	TotalFiles              int   `json:"total_files" yaml:"total_files" toml:"total_files"`
	TotalLines              int   `json:"total_lines" yaml:"total_lines" toml:"total_lines"`
	TotalCharacters         int   `json:"total_characters" yaml:"total_characters" toml:"total_characters"`
	TotalCommentLines       int   `json:"total_comment_lines" yaml:"total_comment_lines" toml:"total_comment_lines"`
	TotalComplexity         int   `json:"total_complexity" yaml:"total_complexity" toml:"total_complexity"`
	TotalKeywordOccurrences int   `json:"total_keyword_occurrences" yaml:"total_keyword_occurrences" toml:"total_keyword_occurrences"`
	FilesContainingKeyword  int   `json:"files_containing_keyword" yaml:"files_containing_keyword" toml:"files_containing_keyword"`
	TotalSizeBytes          int64 `json:"total_size_bytes" yaml:"total_size_bytes" toml:"total_size_bytes"`
}

// Add 将单个文件的度量叠加到汇总中（不包含 TotalFiles）
func (s *AnalysisSummary) Add(m FileMetrics) {
	s.TotalLines += m.LineCount
	s.TotalCharacters += m.CharacterCount
	s.TotalCommentLines += m.CommentLineCount
	s.TotalComplexity += m.ComplexityScore
	s.TotalKeywordOccurrences += m.KeywordCount
	s.TotalSizeBytes += m.SizeBytes
	if m.KeywordCount > 0 {
		s.FilesContainingKeyword++
	}
}

// CommentRatio 返回注释行占总行数的比例，没有任何行时返回 0
func (s AnalysisSummary) CommentRatio() float64 {
	if s.TotalLines == 0 {
		return 0
	}
	return float64(s.TotalCommentLines) / float64(s.TotalLines)
}

// DiagnosticKind 诊断类别
type DiagnosticKind string

const (
	// DiagnosticMissingRoot 配置的根目录不存在（或不是目录）
	DiagnosticMissingRoot DiagnosticKind = "MissingRoot"
	// DiagnosticReadError 文件或目录无法读取
	DiagnosticReadError DiagnosticKind = "ReadError"
)

// Diagnostic 是一次扫描中的非致命问题
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind" yaml:"kind" toml:"kind" jsonschema:"enum=MissingRoot,enum=ReadError"`
	Path   string         `json:"path" yaml:"path" toml:"path"`
	Reason string         `json:"reason" yaml:"reason" toml:"reason"`
}

// ScanResult 是一次扫描的完整输出
type ScanResult struct {
	Roots       []string        `json:"roots" yaml:"roots" toml:"roots"`
	Keyword     string          `json:"keyword" yaml:"keyword" toml:"keyword"`
	SortKey     string          `json:"sort_key" yaml:"sort_key" toml:"sort_key"`
	Ascending   bool            `json:"ascending" yaml:"ascending" toml:"ascending"`
	Summary     AnalysisSummary `json:"summary" yaml:"summary" toml:"summary"`
	Files       []FileMetrics   `json:"files" yaml:"files" toml:"files"`
	Diagnostics []Diagnostic    `json:"diagnostics" yaml:"diagnostics" toml:"diagnostics"`
	StartedAt   time.Time       `json:"started_at" yaml:"started_at" toml:"started_at"`
	Duration    time.Duration   `json:"duration" yaml:"duration" toml:"duration" jsonschema:"type=integer,description=Scan duration in nanoseconds"`
}

// Snippets 按当前文件顺序展开所有片段
func (r *ScanResult) Snippets() []SnippetRef {
	var out []SnippetRef
	for _, f := range r.Files {
		for _, s := range f.Snippets {
			out = append(out, SnippetRef{Path: f.Path, DisplayName: f.DisplayName, CodeSnippet: s})
		}
	}
	return out
}

// SnippetRef 是带文件信息的片段，供展示层使用
type SnippetRef struct {
	Path        string `json:"path" yaml:"path"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	CodeSnippet
}
