package style

import (
	"io"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown 渲染传入的 Markdown 文本并输出到指定 writer
// width<=0 时使用终端宽度，结果限制在 [80, 120]；
// theme 为空或 "auto" 时根据终端背景自动选择
func RenderMarkdown(w io.Writer, input string, width int, theme string) error {
	termWidth := TerminalWidth(w, 80)
	if width <= 0 {
		width = termWidth
	}
	width = min(max(width, 80), 120)

	styleOpt := glamour.WithAutoStyle()
	if theme != "" && theme != "auto" {
		styleOpt = glamour.WithStandardStyle(theme)
	}

	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithInlineTableLinks(true),
	)
	if err != nil {
		return err
	}

	out, err := r.Render(input)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}
