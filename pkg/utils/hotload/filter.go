package hotload

import (
	"path/filepath"
	"slices"
	"strings"
)

// relevantDir 判断目录是否需要监听
func (w *Watcher) relevantDir(root watchRoot, path string) bool {
	rel, ok := relTo(root.path, path)
	if !ok {
		return false
	}
	if rel == "" {
		return true
	}
	if hasGitSegment(rel) {
		return false
	}
	if matchIgnore(rel, w.opts.IgnorePatterns) {
		return false
	}
	return !root.gi.Match(rel, true)
}

// relevantFile 判断文件是否为会影响扫描结果的相关文件
func (w *Watcher) relevantFile(root watchRoot, path string) bool {
	rel, ok := relTo(root.path, path)
	if !ok || rel == "" {
		return false
	}
	if hasGitSegment(rel) {
		return false
	}
	if len(w.exts) > 0 && !slices.Contains(w.exts, strings.ToLower(filepath.Ext(path))) {
		return false
	}
	if matchIgnore(rel, w.opts.IgnorePatterns) {
		return false
	}
	return !root.gi.Match(rel, false)
}

func relTo(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	if rel == "." {
		return "", true
	}
	return rel, true
}

func hasGitSegment(rel string) bool {
	return slices.Contains(strings.Split(rel, "/"), ".git")
}

// matchIgnore 检查相对路径是否命中忽略模式
// 不含 `/` 的模式匹配任意一级的名称，`dir/*` 形式的模式匹配 dir 及其下所有内容
func matchIgnore(rel string, patterns []string) bool {
	segments := strings.Split(rel, "/")
	for _, raw := range patterns {
		p := strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(raw)), "./")
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			for _, seg := range segments {
				if ok, _ := filepath.Match(p, seg); ok {
					return true
				}
			}
			continue
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		prefix := strings.TrimSuffix(strings.TrimSuffix(p, "*"), "/")
		if prefix != "" && (rel == prefix || strings.HasPrefix(rel, prefix+"/")) {
			return true
		}
	}
	return false
}
