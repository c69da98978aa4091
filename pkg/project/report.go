package project

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/yeisme/codescope/pkg/configs"
	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/style"
	"github.com/yeisme/codescope/pkg/utils/count"
)

// fileHeaders 文件表的表头，下标与 sortColumn 对应
var fileHeaders = []string{"#", "file", "size", "lines", "chars", "comments", "complexity", "keyword"}

// sortColumn 返回排序键在文件表中对应的列
func sortColumn(key string) int {
	switch count.SortKey(key) {
	case count.SortByName:
		return 1
	case count.SortBySize:
		return 2
	case count.SortByLines:
		return 3
	case count.SortByChars:
		return 4
	case count.SortByComments:
		return 5
	case count.SortByComplexity:
		return 6
	}
	return -1
}

// FilterFiles 按模糊模式过滤文件，保持原有顺序；pattern 为空时原样返回
// 模式同时与文件名和相对路径比较，不区分大小写
func FilterFiles(files []models.FileMetrics, roots []string, pattern string) []models.FileMetrics {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return files
	}
	out := make([]models.FileMetrics, 0, len(files))
	for _, f := range files {
		if fuzzy.MatchFold(pattern, f.DisplayName) || fuzzy.MatchFold(pattern, displayPath(roots, f.Path)) {
			out = append(out, f)
		}
	}
	return out
}

// limitFiles 只保留前 n 个文件，n<=0 表示不限制
func limitFiles(files []models.FileMetrics, n int) []models.FileMetrics {
	if n <= 0 || n >= len(files) {
		return files
	}
	return files[:n]
}

// viewFiles 返回表格与 Markdown 视图中展示的文件
func viewFiles(res *models.ScanResult, opts ScanOptions) []models.FileMetrics {
	return limitFiles(FilterFiles(res.Files, res.Roots, opts.Match), opts.Top)
}

// displayPath 返回相对于所属根目录的路径，多个根目录时取最短者
func displayPath(roots []string, path string) string {
	best := path
	for _, r := range roots {
		rel, err := filepath.Rel(r, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if len(rel) < len(best) {
			best = rel
		}
	}
	return best
}

// RenderReport 按格式输出扫描结果
// 数据格式（json/yaml/toml/text）始终输出完整结果，--match 与 --top 只影响表格与 Markdown 视图
func RenderReport(w io.Writer, res *models.ScanResult, opts ScanOptions) error {
	switch opts.Format {
	case configs.FormatTable, "":
		return renderTable(w, res, opts)
	case configs.FormatMarkdown:
		return style.RenderMarkdown(w, BuildMarkdown(res, opts), opts.Width, opts.Theme)
	default:
		return configs.OutputData(res, opts.Format, w)
	}
}

func renderTable(w io.Writer, res *models.ScanResult, opts ScanOptions) error {
	width := opts.Width
	if width <= 0 {
		width = style.TerminalWidth(w, 100)
	}

	if err := style.PrintHeading(w, "summary"); err != nil {
		return err
	}
	if err := style.PrintFields(w, summaryFields(res)); err != nil {
		return err
	}

	files := viewFiles(res, opts)
	_, _ = fmt.Fprintln(w)
	title := "files"
	if len(files) != len(res.Files) {
		title = fmt.Sprintf("files (%d of %d)", len(files), len(res.Files))
	}
	if err := style.PrintHeading(w, title); err != nil {
		return err
	}
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, "  no matching files")
	} else {
		if err := style.PrintTable(w, style.Table{
			Headers:    style.SortHeaders(fileHeaders, sortColumn(res.SortKey), res.Ascending),
			Rows:       fileRows(res.Roots, files, width),
			Width:      width,
			RightAlign: []int{0, 2, 3, 4, 5, 6, 7},
		}); err != nil {
			return err
		}
	}

	if opts.Snippets && res.Keyword != "" {
		if err := renderSnippets(w, res, files, width); err != nil {
			return err
		}
	}

	if len(res.Diagnostics) > 0 {
		_, _ = fmt.Fprintln(w)
		if err := style.PrintHeading(w, "diagnostics"); err != nil {
			return err
		}
		items := make([]string, 0, len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			items = append(items, fmt.Sprintf("%s %s: %s", d.Kind, d.Path, d.Reason))
		}
		return style.PrintList(w, items, true)
	}
	return nil
}

func summaryFields(res *models.ScanResult) []style.Field {
	s := res.Summary
	keyword := res.Keyword
	if keyword == "" {
		keyword = "(none)"
	}
	return []style.Field{
		{Label: "Roots", Value: strings.Join(res.Roots, ", ")},
		{Label: "Keyword", Value: keyword},
		{Label: "Files", Value: humanize.Comma(int64(s.TotalFiles))},
		{Label: "Lines", Value: humanize.Comma(int64(s.TotalLines))},
		{Label: "Characters", Value: humanize.Comma(int64(s.TotalCharacters))},
		{Label: "Comment lines", Value: fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(s.TotalCommentLines)), s.CommentRatio()*100)},
		{Label: "Complexity", Value: humanize.Comma(int64(s.TotalComplexity))},
		{Label: "Keyword hits", Value: fmt.Sprintf("%s in %d files", humanize.Comma(int64(s.TotalKeywordOccurrences)), s.FilesContainingKeyword)},
		{Label: "Total size", Value: humanize.IBytes(uint64(max(s.TotalSizeBytes, 0)))},
		{Label: "Diagnostics", Value: fmt.Sprintf("%d", len(res.Diagnostics)), Warn: len(res.Diagnostics) > 0},
		{Label: "Duration", Value: res.Duration.Round(time.Millisecond).String()},
	}
}

func fileRows(roots []string, files []models.FileMetrics, width int) [][]string {
	// 路径列最多占一半宽度
	pathWidth := max(width/2, 20)
	rows := make([][]string, 0, len(files))
	for i, f := range files {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			style.Truncate(displayPath(roots, f.Path), pathWidth),
			humanize.IBytes(uint64(max(f.SizeBytes, 0))),
			humanize.Comma(int64(f.LineCount)),
			humanize.Comma(int64(f.CharacterCount)),
			humanize.Comma(int64(f.CommentLineCount)),
			humanize.Comma(int64(f.ComplexityScore)),
			humanize.Comma(int64(f.KeywordCount)),
		})
	}
	return rows
}

func renderSnippets(w io.Writer, res *models.ScanResult, files []models.FileMetrics, width int) error {
	var items []string
	for _, f := range files {
		if len(f.Snippets) == 0 {
			continue
		}
		hl := style.NewHighlighter(w, res.Keyword, count.CommentStyleFor(filepath.Ext(f.Path)).Line)
		for _, s := range f.Snippets {
			loc := fmt.Sprintf("%s:%d", displayPath(res.Roots, f.Path), s.LineNumber)
			text := style.Truncate(strings.TrimSpace(s.Text), max(width-len(loc)-6, 20))
			items = append(items, loc+"  "+hl.Render(text))
		}
	}
	if len(items) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)
	if err := style.PrintHeading(w, fmt.Sprintf("snippets: %s", res.Keyword)); err != nil {
		return err
	}
	return style.PrintList(w, items, false)
}
