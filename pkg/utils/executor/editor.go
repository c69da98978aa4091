package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoEditor 表示没有可用的编辑器
var ErrNoEditor = errors.New("no editor configured, set display.editor or $EDITOR")

// ErrFileNotFound 表示要打开的文件已不存在
var ErrFileNotFound = errors.New("file not found")

// ResolveEditor 返回要使用的编辑器命令：配置优先，其次 $VISUAL、$EDITOR
func ResolveEditor(configured string) string {
	for _, e := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(e) != "" {
			return strings.TrimSpace(e)
		}
	}
	return ""
}

// EditorArgs 根据编辑器类型生成 "在指定行打开文件" 的命令
// editor 可以带参数，例如 "code -r"
func EditorArgs(editor, path string, line int) (string, []string, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return "", nil, ErrNoEditor
	}
	name, args := fields[0], fields[1:]
	line = max(line, 1)

	base := strings.TrimSuffix(strings.ToLower(filepath.Base(name)), ".exe")
	switch base {
	case "code", "code-insiders", "codium", "cursor":
		args = append(args, "--goto", path+":"+strconv.Itoa(line))
	case "subl", "sublime_text", "zed":
		args = append(args, path+":"+strconv.Itoa(line))
	case "idea", "rider", "goland", "idea64", "rider64":
		args = append(args, "--line", strconv.Itoa(line), path)
	default:
		// vi, vim, nvim, nano, emacs, micro, hx 等均支持 +N
		args = append(args, "+"+strconv.Itoa(line), path)
	}
	return name, args, nil
}

// OpenAtLine 在外部编辑器中打开文件并定位到指定行
// 文件不存在时返回 ErrFileNotFound，不启动编辑器
func OpenAtLine(ctx context.Context, editor, path string, line int, in io.Reader, out, errOut io.Writer) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return err
	}
	name, args, err := EditorArgs(editor, path, line)
	if err != nil {
		return err
	}
	return NewExecutor(ctx, name, args...).WithStdio(in, out, errOut).Run()
}
