package project

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/style"
)

// BuildMarkdown 生成 Markdown 格式的报告
func BuildMarkdown(res *models.ScanResult, opts ScanOptions) string {
	var b strings.Builder
	s := res.Summary

	b.WriteString("# codescope report\n\n")
	fmt.Fprintf(&b, "Roots: %s\n\n", mdCode(strings.Join(res.Roots, ", ")))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	rows := [][2]string{
		{"Files", humanize.Comma(int64(s.TotalFiles))},
		{"Lines", humanize.Comma(int64(s.TotalLines))},
		{"Characters", humanize.Comma(int64(s.TotalCharacters))},
		{"Comment lines", fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(s.TotalCommentLines)), s.CommentRatio()*100)},
		{"Complexity", humanize.Comma(int64(s.TotalComplexity))},
		{"Keyword", mdCode(res.Keyword)},
		{"Keyword hits", humanize.Comma(int64(s.TotalKeywordOccurrences))},
		{"Files containing keyword", humanize.Comma(int64(s.FilesContainingKeyword))},
		{"Total size", humanize.IBytes(uint64(max(s.TotalSizeBytes, 0)))},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], r[1])
	}

	files := viewFiles(res, opts)
	b.WriteString("\n## Files\n\n")
	if len(files) == 0 {
		b.WriteString("_No matching files._\n")
	} else {
		headers := style.SortHeaders(fileHeaders, sortColumn(res.SortKey), res.Ascending)
		b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
		b.WriteString("|---:|---|---:|---:|---:|---:|---:|---:|\n")
		for i, f := range files {
			fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %d | %d | %d |\n",
				i+1,
				mdEscape(displayPath(res.Roots, f.Path)),
				humanize.IBytes(uint64(max(f.SizeBytes, 0))),
				f.LineCount, f.CharacterCount, f.CommentLineCount, f.ComplexityScore, f.KeywordCount)
		}
	}

	if opts.Snippets && res.Keyword != "" {
		var snippets strings.Builder
		for _, f := range files {
			for _, sn := range f.Snippets {
				fmt.Fprintf(&snippets, "- **%s:%d** %s\n", mdEscape(displayPath(res.Roots, f.Path)), sn.LineNumber, mdCode(strings.TrimSpace(sn.Text)))
			}
		}
		if snippets.Len() > 0 {
			fmt.Fprintf(&b, "\n## Snippets for %s\n\n", mdCode(res.Keyword))
			b.WriteString(snippets.String())
		}
	}

	if len(res.Diagnostics) > 0 {
		b.WriteString("\n## Diagnostics\n\n")
		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "- **%s** %s: %s\n", d.Kind, mdCode(d.Path), mdEscape(d.Reason))
		}
	}
	return b.String()
}

// mdEscape 转义表格与强调中有特殊含义的字符
func mdEscape(s string) string {
	r := strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`, "`", "\\`")
	return r.Replace(s)
}

// mdCode 将文本包装为行内代码，文本含反引号时使用更长的围栏
func mdCode(s string) string {
	if s == "" {
		return "_(none)_"
	}
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	s = strings.ReplaceAll(s, "|", `\|`)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}
