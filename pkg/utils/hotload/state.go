package hotload

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yeisme/codescope/pkg/utils/log"
)

// maxHashSize 超过该大小的文件只比较大小与修改时间
const maxHashSize = 1024 * 1024

// fileState 记录文件的元数据与内容哈希，用于识别真实变更
type fileState struct {
	modTime time.Time
	size    int64
	hash    string
}

// stateCache 文件路径到最近一次已知状态的映射
type stateCache map[string]fileState

func readState(path string) (fileState, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fileState{}, false
	}
	st := fileState{modTime: info.ModTime(), size: info.Size()}
	if info.Size() <= maxHashSize {
		st.hash = calculateFileHash(path)
	}
	return st, true
}

// calculateFileHash 计算文件内容的 MD5，失败时返回空串
func calculateFileHash(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// record 读取并保存文件状态，返回状态是否与之前不同（新文件也算不同）
func (c stateCache) record(path string) bool {
	next, ok := readState(path)
	if !ok {
		return c.forget(path)
	}
	prev, tracked := c[path]
	c[path] = next
	if !tracked {
		return true
	}
	if prev.hash != "" && next.hash != "" {
		return prev.hash != next.hash
	}
	const timeTolerance = 100 * time.Millisecond
	return prev.size != next.size || next.modTime.Sub(prev.modTime).Abs() > timeTolerance
}

// forget 删除 path 以及以 path 为目录前缀的所有记录，返回是否删除了任何记录
func (c stateCache) forget(path string) bool {
	removed := false
	if _, ok := c[path]; ok {
		delete(c, path)
		removed = true
	}
	prefix := path + string(filepath.Separator)
	for p := range c {
		if strings.HasPrefix(p, prefix) {
			delete(c, p)
			removed = true
		}
	}
	return removed
}

// onCreate 处理创建事件：新目录加入监听，新文件记录状态
func (w *Watcher) onCreate(name string) bool {
	root, _, ok := w.rootOf(name)
	if !ok {
		return false
	}
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if !w.relevantDir(root, name) {
			return false
		}
		// 目录可能在加入监听前就已写入文件
		added, err := w.addTree(root, name)
		if err != nil {
			log.Warn().Str("dir", name).Err(err).Msg("failed to watch new directory")
			return false
		}
		log.Debug().Str("dir", name).Int("files", added).Msg("watching new directory")
		return added > 0
	}
	if !w.relevantFile(root, name) {
		return false
	}
	return w.cache.record(name)
}

// onWrite 处理写事件，只有内容变化才算变更
func (w *Watcher) onWrite(name string) bool {
	root, _, ok := w.rootOf(name)
	if !ok || !w.relevantFile(root, name) {
		return false
	}
	return w.cache.record(name)
}

// onRemove 处理删除与重命名，只有曾被记录的文件或包含此类文件的目录才算变更
func (w *Watcher) onRemove(name string) bool {
	return w.cache.forget(name)
}
