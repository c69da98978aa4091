package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Field 是一条 "名称: 值" 形式的统计项
type Field struct {
	Label string
	Value string
	Warn  bool // 以警示色显示值
}

// PrintHeading 打印一个区块标题
func PrintHeading(w io.Writer, title string) error {
	re := lipgloss.NewRenderer(w)
	style := re.NewStyle().
		Foreground(ColorAccentText).
		Background(ColorAccentPrimary).
		Bold(true).
		Padding(0, 1)
	_, err := fmt.Fprintln(w, style.Render(strings.ToUpper(title)))
	return err
}

// PrintFields 以名称对齐的方式打印统计项
func PrintFields(w io.Writer, fields []Field) error {
	if len(fields) == 0 {
		return nil
	}
	// 计算最大名称宽度用于对齐
	maxLabel := 0
	for _, f := range fields {
		maxLabel = max(maxLabel, runewidth.StringWidth(f.Label))
	}

	re := lipgloss.NewRenderer(w)
	labelStyle := re.NewStyle().Foreground(ColorAccentPrimary).Bold(true)
	valueStyle := re.NewStyle().Foreground(ColorText)
	warnStyle := re.NewStyle().Foreground(ColorDanger)

	for _, f := range fields {
		padding := strings.Repeat(" ", maxLabel-runewidth.StringWidth(f.Label))
		value := valueStyle.Render(f.Value)
		if f.Warn {
			value = warnStyle.Render(f.Value)
		}
		line := fmt.Sprintf("  %s%s  %s", labelStyle.Render(f.Label), padding, value)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
