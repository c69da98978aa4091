// Package style 提供多种样式化输出功能
package style

import "github.com/charmbracelet/lipgloss"

// 定义一套颜色，方便管理和修改
const (
	// 主题强调色/品牌色，用于吸引注意力的元素，如标题背景
	ColorAccentPrimary = lipgloss.Color("#33A1FF")

	// 强调文本色，用于在强调背景(AccentPrimary)上显示的文本，以确保对比度
	ColorAccentText = lipgloss.Color("#FFFFFF")

	// 主要文本颜色，用于普通的数据行内容
	ColorText = lipgloss.Color("#E4E4E4")

	// 次要文本颜色，用于行号、路径等辅助信息
	ColorMuted = lipgloss.Color("#8A8A8A")

	// 边框颜色，用于表格或容器的轮廓
	ColorBorder = lipgloss.Color("#444444")

	// 危险/错误强调色，用于诊断信息
	ColorDanger = lipgloss.Color("#FF5555")

	// 成功色
	ColorSuccess = lipgloss.Color("#22C55E")

	// 片段高亮颜色
	ColorComment = lipgloss.Color("#22C55E") // 注释
	ColorString  = lipgloss.Color("#F59E0B") // 字符串字面量
	ColorKeyword = lipgloss.Color("#FACC15") // 关键字
)
