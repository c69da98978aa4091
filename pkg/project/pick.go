package project

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/yeisme/codescope/pkg/models"
	"github.com/yeisme/codescope/pkg/utils/executor"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// previewRadius 预览窗口中片段上下各显示的行数
const previewRadius = 8

// 便于测试替换的交互与启动函数
var (
	pickSnippet = fuzzyPick
	openAtLine  = executor.OpenAtLine
)

// PickAndOpen 交互选择一个片段并在外部编辑器中打开
// 用户取消选择不是错误；文件已被删除时返回 executor.ErrFileNotFound
func PickAndOpen(ctx context.Context, res *models.ScanResult, editor string, in io.Reader, out, errOut io.Writer) error {
	snips := res.Snippets()
	if len(snips) == 0 {
		_, _ = fmt.Fprintln(errOut, "no snippets to pick")
		return nil
	}

	idx, err := pickSnippet(res.Roots, snips)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			log.Debug().Msg("snippet selection cancelled")
			return nil
		}
		return err
	}
	if idx < 0 || idx >= len(snips) {
		return fmt.Errorf("invalid selection %d", idx)
	}

	sel := snips[idx]
	ed := executor.ResolveEditor(editor)
	if ed == "" {
		return executor.ErrNoEditor
	}
	log.Info().Str("file", sel.Path).Int("line", sel.LineNumber).Str("editor", ed).Msg("open snippet")
	return openAtLine(ctx, ed, sel.Path, sel.LineNumber, in, out, errOut)
}

// fuzzyPick 使用 fuzzyfinder 在片段中交互选择，右侧预览片段所在位置的上下文
func fuzzyPick(roots []string, snips []models.SnippetRef) (int, error) {
	return fuzzyfinder.Find(snips,
		func(i int) string {
			s := snips[i]
			return fmt.Sprintf("%s:%d  %s", displayPath(roots, s.Path), s.LineNumber, strings.TrimSpace(s.Text))
		},
		fuzzyfinder.WithPromptString("snippet> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 || i >= len(snips) {
				return ""
			}
			return previewContext(snips[i].Path, snips[i].LineNumber, previewRadius)
		}),
	)
}

// previewContext 读取 line 前后 radius 行，目标行以 > 标记
func previewContext(path string, line, radius int) string {
	f, err := os.Open(path)
	if err != nil {
		return err.Error()
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		if n < line-radius {
			continue
		}
		if n > line+radius {
			break
		}
		marker := "  "
		if n == line {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%5d  %s\n", marker, n, sc.Text())
	}
	return b.String()
}
