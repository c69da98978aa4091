package style

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	xterm "github.com/charmbracelet/x/term"
	"github.com/mattn/go-runewidth"
)

// 排序方向箭头
const (
	ArrowUp   = "↑"
	ArrowDown = "↓"
)

// Table 描述一张待渲染的表格
type Table struct {
	Headers []string
	Rows    [][]string
	// Width 期望的表格宽度；<=0 时自动探测终端宽度（失败则回退到80）
	Width int
	// RightAlign 需要右对齐的列下标，一般是数字列
	RightAlign []int
}

// PrintTable 用于标准化表格输出，支持自定义表头和内容
func PrintTable(w io.Writer, t Table) error {
	width := t.Width
	if width <= 0 {
		width = detectTerminalWidth(w)
		if width <= 0 {
			width = 80
		}
	}

	re := lipgloss.NewRenderer(w)
	baseStyle := re.NewStyle().Padding(0, 1)
	headerStyle := baseStyle.Foreground(lipgloss.Color("252")).Bold(true)

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = strings.ToUpper(h)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("238"))).
		Headers(headers...).
		Width(width).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := baseStyle
			if row == table.HeaderRow {
				s = headerStyle
			}
			if slices.Contains(t.RightAlign, col) {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	_, err := fmt.Fprintln(w, tbl)
	return err
}

// SortHeaders 在当前排序列的表头后追加方向箭头
// active 为排序列下标，越界时原样返回
func SortHeaders(headers []string, active int, ascending bool) []string {
	out := slices.Clone(headers)
	if active < 0 || active >= len(out) {
		return out
	}
	arrow := ArrowDown
	if ascending {
		arrow = ArrowUp
	}
	out[active] = out[active] + " " + arrow
	return out
}

// Truncate 按显示宽度截断字符串，超出时以 … 结尾；width<=0 时不截断
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// detectTerminalWidth 尝试从 writer 获取终端宽度，失败则返回 0
func detectTerminalWidth(w io.Writer) int {
	// 优先使用文件描述符
	if f, ok := w.(*os.File); ok {
		if cols, _, err := xterm.GetSize(f.Fd()); err == nil && cols > 0 {
			return cols
		}
	}
	// 尝试从环境变量读取（例如某些环境会设置 COLUMNS）
	if v := os.Getenv("COLUMNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// TerminalWidth 返回 w 对应终端的宽度，无法探测时返回 fallback
func TerminalWidth(w io.Writer, fallback int) int {
	if n := detectTerminalWidth(w); n > 0 {
		return n
	}
	return fallback
}

// IsTerminal 判断 w 是否为终端
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(f.Fd())
}
