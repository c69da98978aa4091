package hotload

import (
	"slices"
	"time"
)

// debouncer 累积变更路径，在最后一次变更后静默 delay 才触发
// 只在 Run 的事件循环中使用，无需加锁
type debouncer struct {
	delay   time.Duration
	timer   *time.Timer
	pending map[string]struct{}
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]struct{})}
}

// add 记录一个变更并重置定时器
func (d *debouncer) add(path string) {
	d.pending[path] = struct{}{}
	if d.timer == nil {
		d.timer = time.NewTimer(d.delay)
		return
	}
	d.timer.Reset(d.delay)
}

// C 返回定时器通道，没有待处理变更时返回 nil（select 中永不就绪）
func (d *debouncer) C() <-chan time.Time {
	if d.timer == nil {
		return nil
	}
	return d.timer.C
}

// drain 取出所有待处理变更（排序后），并清除定时器
func (d *debouncer) drain() []string {
	out := make([]string, 0, len(d.pending))
	for p := range d.pending {
		out = append(out, p)
	}
	slices.Sort(out)
	clear(d.pending)
	d.stop()
	return out
}

func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
