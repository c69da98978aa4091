// Package executor 启动外部程序（例如编辑器），并把失败包装为结构化错误
package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ExecError 是一个结构化的命令执行错误
type ExecError struct {
	Cmd  string   // 执行的命令
	Args []string // 命令参数
	Err  error    // 底层错误 (通常是 *exec.ExitError 或 exec.ErrNotFound)
}

// Error 实现了 error 接口
func (e *ExecError) Error() string {
	code := e.ExitCode()
	codeStr := "unknown"
	if code >= 0 {
		codeStr = fmt.Sprintf("%d", code)
	}
	return fmt.Sprintf("command execution failed: %s %s, exit-code: %s, err: %v",
		e.Cmd, strings.Join(e.Args, " "), codeStr, e.Err)
}

// Unwrap 允许使用 errors.Is 和 errors.As 来检查底层错误
func (e *ExecError) Unwrap() error {
	return e.Err
}

// ExitCode 返回底层进程的退出码，若不可用返回 -1
func (e *ExecError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Executor 是一个命令执行器的构建器
// 一个 Executor 实例只用于一次命令执行
type Executor struct {
	cmd *exec.Cmd
}

// NewExecutor 创建一个新的命令执行器，ctx 取消时终止子进程
func NewExecutor(ctx context.Context, name string, args ...string) *Executor {
	return &Executor{
		cmd: exec.CommandContext(ctx, name, args...),
	}
}

// WithDir 设置命令执行的工作目录
func (e *Executor) WithDir(dir string) *Executor {
	e.cmd.Dir = dir
	return e
}

// WithStdio 设置命令的标准输入输出，终端编辑器需要继承当前终端
func (e *Executor) WithStdio(in io.Reader, out, errOut io.Writer) *Executor {
	e.cmd.Stdin = in
	e.cmd.Stdout = out
	e.cmd.Stderr = errOut
	return e
}

// Args 返回完整的参数列表（不含程序名）
func (e *Executor) Args() []string {
	return e.cmd.Args[1:]
}

// Run 执行命令并等待其退出
func (e *Executor) Run() error {
	if err := e.cmd.Run(); err != nil {
		return &ExecError{
			Cmd:  e.cmd.Path,
			Args: e.cmd.Args[1:],
			Err:  err,
		}
	}
	return nil
}
