package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
)

// PrintList 用于渲染一个带有主题样式的列表到指定的 writer
// danger 为 true 时使用警示色，例如诊断信息
func PrintList(w io.Writer, items []string, danger bool) error {
	if len(items) == 0 {
		return nil
	}
	re := lipgloss.NewRenderer(w)

	color := ColorAccentPrimary
	if danger {
		color = ColorDanger
	}
	enumeratorStyle := re.NewStyle().Foreground(color).MarginRight(1)
	itemStyle := re.NewStyle().Foreground(ColorText)

	anyItems := make([]any, len(items))
	for i, it := range items {
		anyItems[i] = it
	}

	l := list.New(anyItems...).
		Enumerator(list.Bullet).
		EnumeratorStyle(enumeratorStyle).
		ItemStyle(itemStyle)

	_, err := fmt.Fprintln(w, l)
	return err
}
