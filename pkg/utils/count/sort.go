package count

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yeisme/codescope/pkg/models"
)

// SortKey 是文件度量的排序键
type SortKey string

const (
	SortByName       SortKey = "name"       // 文件名（字典序）
	SortBySize       SortKey = "size"       // 文件大小
	SortByLines      SortKey = "lines"      // 行数
	SortByChars      SortKey = "chars"      // 字符数
	SortByComments   SortKey = "comments"   // 注释行数
	SortByComplexity SortKey = "complexity" // 复杂度
)

// DefaultSortKey 默认按文件大小排序
const DefaultSortKey = SortBySize

// SortKeys 返回所有有效的排序键
func SortKeys() []SortKey {
	return []SortKey{SortByName, SortBySize, SortByLines, SortByChars, SortByComments, SortByComplexity}
}

// ParseSortKey 解析排序键，不区分大小写
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "size":
		return SortBySize, nil
	case "name", "filename", "file":
		return SortByName, nil
	case "lines", "line", "linecount":
		return SortByLines, nil
	case "chars", "characters", "charactercount":
		return SortByChars, nil
	case "comments", "comment", "commentcount":
		return SortByComments, nil
	case "complexity", "cyclomatic":
		return SortByComplexity, nil
	default:
		names := make([]string, 0, len(SortKeys()))
		for _, k := range SortKeys() {
			names = append(names, string(k))
		}
		return "", fmt.Errorf("unsupported sort key '%s', supported keys: %s", s, strings.Join(names, ", "))
	}
}

// compareBy 返回按排序键比较两个记录的函数，平局时按路径比较，从而得到严格全序
func compareBy(key SortKey) func(a, b models.FileMetrics) int {
	var primary func(a, b models.FileMetrics) int
	switch key {
	case SortByName:
		primary = func(a, b models.FileMetrics) int { return strings.Compare(a.DisplayName, b.DisplayName) }
	case SortByLines:
		primary = func(a, b models.FileMetrics) int { return cmp.Compare(a.LineCount, b.LineCount) }
	case SortByChars:
		primary = func(a, b models.FileMetrics) int { return cmp.Compare(a.CharacterCount, b.CharacterCount) }
	case SortByComments:
		primary = func(a, b models.FileMetrics) int { return cmp.Compare(a.CommentLineCount, b.CommentLineCount) }
	case SortByComplexity:
		primary = func(a, b models.FileMetrics) int { return cmp.Compare(a.ComplexityScore, b.ComplexityScore) }
	default:
		primary = func(a, b models.FileMetrics) int { return cmp.Compare(a.SizeBytes, b.SizeBytes) }
	}
	return func(a, b models.FileMetrics) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	}
}

// SortMetrics 返回按 key 排序后的新切片，不修改输入
// 降序结果恰好是升序结果的逆序
func SortMetrics(metrics []models.FileMetrics, key SortKey, ascending bool) []models.FileMetrics {
	out := slices.Clone(metrics)
	if out == nil {
		out = []models.FileMetrics{}
	}
	compare := compareBy(normalizeSortKey(key))
	if ascending {
		slices.SortStableFunc(out, compare)
	} else {
		slices.SortStableFunc(out, func(a, b models.FileMetrics) int { return compare(b, a) })
	}
	return out
}
