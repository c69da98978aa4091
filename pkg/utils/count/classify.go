package count

import (
	"regexp"
	"strings"
	"unicode"
)

// branchPattern 匹配分支关键字，每行最多贡献 1 点复杂度
var branchPattern = regexp.MustCompile(`\b(if|else if|for|while|case|catch)\b`)

// Classifier 对单行文本做分类，不保存跨行状态
type Classifier struct {
	Style CommentStyle
}

// NewClassifier 根据扩展名创建分类器
func NewClassifier(ext string) Classifier {
	return Classifier{Style: CommentStyleFor(ext)}
}

// IsCommentLine 判断该行是否带注释：
// 去除前导空白后以单行注释标记开头，或在任意位置包含块注释起止标记
//
// 多行块注释中间不含标记的行不会被计入
func (c Classifier) IsCommentLine(line string) bool {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	for _, p := range c.Style.Line {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	if c.Style.BlockStart != "" && strings.Contains(line, c.Style.BlockStart) {
		return true
	}
	return c.Style.BlockEnd != "" && strings.Contains(line, c.Style.BlockEnd)
}

// ComplexityHit 判断该行是否包含分支关键字（整词匹配）
func ComplexityHit(line string) bool {
	return branchPattern.MatchString(line)
}

// KeywordOccurrences 统计关键字在行内不重叠、区分大小写的字面出现次数
// 空关键字恒为 0
func KeywordOccurrences(line, keyword string) int {
	if keyword == "" {
		return 0
	}
	return strings.Count(line, keyword)
}

// blockTracker 是单个文件内的块注释状态机
type blockTracker struct {
	style  CommentStyle
	inside bool
}

// step 处理一行并返回该行是否位于（或触及）块注释中
func (b *blockTracker) step(line string) bool {
	if b.style.BlockStart == "" || b.style.BlockEnd == "" {
		return false
	}
	touched := b.inside
	rest := line
	for {
		if b.inside {
			i := strings.Index(rest, b.style.BlockEnd)
			if i < 0 {
				return true
			}
			b.inside = false
			rest = rest[i+len(b.style.BlockEnd):]
			continue
		}
		i := strings.Index(rest, b.style.BlockStart)
		if i < 0 {
			return touched
		}
		touched = true
		b.inside = true
		rest = rest[i+len(b.style.BlockStart):]
	}
}
