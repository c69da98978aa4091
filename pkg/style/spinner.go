package style

import (
	"fmt"
	"io"
	"time"
)

// Spinner 是一个简单的终端旋转指示器
// 用于长时间运行的扫描期间提供轻量反馈，应写到 stderr 以免污染报告
type Spinner struct {
	out      io.Writer
	msg      string
	stopCh   chan struct{}
	doneCh   chan struct{}
	interval time.Duration
	started  bool
}

// NewSpinner 创建一个新的 Spinner
func NewSpinner(out io.Writer, msg string) *Spinner {
	return &Spinner{
		out:      out,
		msg:      msg,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		interval: 120 * time.Millisecond,
	}
}

// Start 启动 spinner，直到 Stop 被调用
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.doneCh)
		frames := []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}
		i := 0
		_, _ = fmt.Fprintf(s.out, "%s %c\r", s.msg, frames[i])
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				// 清理整行
				_, _ = fmt.Fprintf(s.out, "\r\033[K")
				return
			case <-ticker.C:
				i = (i + 1) % len(frames)
				_, _ = fmt.Fprintf(s.out, "%s %c\r", s.msg, frames[i])
			}
		}
	}()
}

// Stop 停止 spinner，未启动时什么也不做
func (s *Spinner) Stop() {
	if !s.started {
		return
	}
	s.started = false
	close(s.stopCh)
	<-s.doneCh
}
