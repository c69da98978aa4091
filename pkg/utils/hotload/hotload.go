// Package hotload 监听源码目录的变化，在一段静默期后把累计的变更交给回调
//
// 只有内容真正发生变化的相关文件才算变更：
// 扩展名不匹配、命中忽略模式或 .gitignore 的路径被过滤，
// 仅修改时间变化但内容哈希不变的写事件也被忽略
package hotload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yeisme/codescope/pkg/utils/fsop"
	"github.com/yeisme/codescope/pkg/utils/gitignore"
	"github.com/yeisme/codescope/pkg/utils/log"
)

// DefaultDebounce 未配置防抖时长时使用的默认值
const DefaultDebounce = 300 * time.Millisecond

// Func 在防抖结束后被调用，changed 为去重并排序后的变更路径
type Func func(ctx context.Context, changed []string)

// Options 控制监听范围
type Options struct {
	Roots          []string      // 监听的根目录
	Extensions     []string      // 相关文件的扩展名，为空表示所有文件
	IgnorePatterns []string      // 忽略的 glob，匹配文件名或相对路径
	GitIgnore      bool          // 是否遵循各根目录下的 .gitignore
	Debounce       time.Duration // 防抖时长，<=0 时使用 DefaultDebounce
}

type watchRoot struct {
	path string
	gi   *gitignore.GitIgnore
}

// Watcher 基于 fsnotify 的递归目录监听器
type Watcher struct {
	opts  Options
	exts  []string
	fsw   *fsnotify.Watcher
	roots []watchRoot
	cache stateCache
	deb   *debouncer
}

// New 创建 Watcher，注册所有根目录及其子目录并建立初始状态缓存
// 不存在的根目录会被跳过并记录警告；所有根目录都不可用时返回错误
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建 watcher 失败: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		opts:  opts,
		exts:  normalizeExts(opts.Extensions),
		fsw:   fsw,
		cache: make(stateCache),
		deb:   newDebouncer(debounce),
	}

	for _, r := range opts.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = filepath.Clean(r)
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			log.Warn().Str("root", abs).Msg("skip watch root: not a directory")
			continue
		}
		root := watchRoot{path: abs, gi: w.loadGitIgnore(abs)}
		w.roots = append(w.roots, root)
		if _, err := w.addTree(root, abs); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	if len(w.roots) == 0 {
		_ = fsw.Close()
		return nil, errors.New("no watchable root directory")
	}

	log.Debug().Int("roots", len(w.roots)).Int("files", len(w.cache)).Dur("debounce", debounce).Msg("watcher initialized")
	return w, nil
}

// Run 处理文件系统事件直到 ctx 结束，回调在事件循环中同步执行，不会并发
func (w *Watcher) Run(ctx context.Context, hook Func) error {
	defer func() {
		if err := w.fsw.Close(); err != nil {
			log.Error().Err(err).Msg("关闭 watcher 失败")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.deb.stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if path, changed := w.handleEvent(event); changed {
				w.deb.add(path)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-w.deb.C():
			changed := w.deb.drain()
			if len(changed) > 0 {
				log.Debug().Strs("changed", changed).Msg("debounced changes")
				hook(ctx, changed)
			}
		}
	}
}

// handleEvent 判断事件是否为相关文件的真实变更
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	name := filepath.Clean(event.Name)
	switch {
	case event.Has(fsnotify.Create):
		return name, w.onCreate(name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return name, w.onRemove(name)
	case event.Has(fsnotify.Write):
		return name, w.onWrite(name)
	}
	return name, false
}

func (w *Watcher) loadGitIgnore(root string) *gitignore.GitIgnore {
	if !w.opts.GitIgnore {
		return nil
	}
	gi, err := gitignore.LoadGitIgnoreFromDir(root)
	if err != nil {
		log.Warn().Str("root", root).Err(err).Msg("failed to load .gitignore")
		return nil
	}
	return gi
}

// addTree 将 dir 及其未被忽略的子目录加入监听，并记录其中相关文件的状态
// 返回新记录的文件数量
func (w *Watcher) addTree(root watchRoot, dir string) (int, error) {
	subdirs, err := fsop.ListSubdirectories(dir, func(relToDir string) bool {
		return !w.relevantDir(root, filepath.Join(dir, filepath.FromSlash(relToDir)))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list subdirectories of %s: %w", dir, err)
	}

	added := 0
	for _, d := range append([]string{dir}, subdirs...) {
		if err := w.fsw.Add(d); err != nil {
			log.Warn().Str("dir", d).Err(err).Msg("failed to watch directory, skipping")
			continue
		}
		entries, err := os.ReadDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			p := filepath.Join(d, e.Name())
			if w.relevantFile(root, p) && w.cache.record(p) {
				added++
			}
		}
	}
	return added, nil
}

// rootOf 返回包含 path 的根目录，嵌套根目录时取最长者
func (w *Watcher) rootOf(path string) (watchRoot, string, bool) {
	var best watchRoot
	bestRel := ""
	found := false
	for _, r := range w.roots {
		rel, err := filepath.Rel(r.path, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !found || len(r.path) > len(best.path) {
			best, bestRel, found = r, filepath.ToSlash(rel), true
		}
	}
	return best, bestRel, found
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
