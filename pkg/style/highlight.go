package style

import (
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SpanKind 片段中一段文本的类别
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanComment
	SpanString
	SpanKeyword
)

// Span 是一段类别相同的连续文本
type Span struct {
	Kind SpanKind
	Text string
}

var (
	blockCommentPattern = regexp.MustCompile(`/\*.*?\*/`)
	stringPattern       = regexp.MustCompile(`"[^"\\]*(?:\\.[^"\\]*)*"`)
)

// Spans 将一行代码切分为带类别的片段
// 后标记的类别覆盖先标记的：注释 < 字符串 < 关键字
// 所有片段按顺序拼接后与输入完全一致
func Spans(text, keyword string, lineMarkers []string) []Span {
	if text == "" {
		return nil
	}
	kinds := make([]SpanKind, len(text))
	mark := func(start, end int, k SpanKind) {
		for i := start; i < end; i++ {
			kinds[i] = k
		}
	}

	for _, m := range lineMarkers {
		if m == "" {
			continue
		}
		if i := strings.Index(text, m); i >= 0 {
			mark(i, len(text), SpanComment)
		}
	}
	for _, loc := range blockCommentPattern.FindAllStringIndex(text, -1) {
		mark(loc[0], loc[1], SpanComment)
	}
	for _, loc := range stringPattern.FindAllStringIndex(text, -1) {
		mark(loc[0], loc[1], SpanString)
	}
	if keyword != "" {
		for off := 0; ; {
			i := strings.Index(text[off:], keyword)
			if i < 0 {
				break
			}
			start := off + i
			mark(start, start+len(keyword), SpanKeyword)
			off = start + len(keyword)
		}
	}

	var spans []Span
	start := 0
	for i := 1; i <= len(text); i++ {
		if i == len(text) || kinds[i] != kinds[start] {
			spans = append(spans, Span{Kind: kinds[start], Text: text[start:i]})
			start = i
		}
	}
	return spans
}

// Highlighter 为关键字片段着色
type Highlighter struct {
	keyword string
	markers []string
	styles  map[SpanKind]lipgloss.Style
}

// NewHighlighter 根据 w 的终端能力创建 Highlighter，非终端输出不带颜色
func NewHighlighter(w io.Writer, keyword string, lineMarkers []string) *Highlighter {
	re := lipgloss.NewRenderer(w)
	return &Highlighter{
		keyword: keyword,
		markers: lineMarkers,
		styles: map[SpanKind]lipgloss.Style{
			SpanPlain:   re.NewStyle(),
			SpanComment: re.NewStyle().Foreground(ColorComment),
			SpanString:  re.NewStyle().Foreground(ColorString),
			SpanKeyword: re.NewStyle().Foreground(ColorKeyword).Bold(true),
		},
	}
}

// Render 返回着色后的文本
func (h *Highlighter) Render(text string) string {
	var b strings.Builder
	for _, s := range Spans(text, h.keyword, h.markers) {
		b.WriteString(h.styles[s.Kind].Render(s.Text))
	}
	return b.String()
}
